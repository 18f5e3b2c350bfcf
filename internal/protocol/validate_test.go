package protocol

import (
	"testing"

	"github.com/saravenpi/parley/internal/models"
	"github.com/stretchr/testify/require"
)

func TestValidateNewChat(t *testing.T) {
	user := &models.User{ID: 42, Username: "luis"}

	tests := []struct {
		name     string
		selected *models.User
		private  bool
		chatName string
		wantOK   bool
		wantMsg  string
	}{
		{"private with selection", user, true, "", true, ""},
		{"public with selection and name", user, false, "team chat", true, ""},
		{"no selection", nil, true, "", false, "You must select a user from the list"},
		{"no selection takes priority over name", nil, false, "", false, "You must select a user from the list"},
		{"public without name", user, false, "", false, "You must specify a name for the chat"},
		{"public with blank name", user, false, "   ", false, "You must specify a name for the chat"},
		{"private ignores missing name", user, true, "", true, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := ValidateNewChat(tc.selected, tc.private, tc.chatName)
			require.Equal(t, tc.wantOK, v.OK)
			require.Equal(t, tc.wantMsg, v.Message)
		})
	}
}

func TestValidateAddUser(t *testing.T) {
	require.True(t, ValidateAddUser(&models.User{ID: 12}).OK)

	v := ValidateAddUser(nil)
	require.False(t, v.OK)
	require.Equal(t, "You must select a user from the list", v.Message)
}
