package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserIDs_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want UserIDs
	}{
		{"plain ids", `[7,9,12]`, UserIDs{7, 9, 12}},
		{"nested user objects", `[{"id":7,"username":"ana"},{"id":9,"username":"luis"}]`, UserIDs{7, 9}},
		{"empty list", `[]`, UserIDs{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got UserIDs
			require.NoError(t, json.Unmarshal([]byte(tc.data), &got))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestUserIDs_UnmarshalJSONRejectsGarbage(t *testing.T) {
	var got UserIDs
	require.Error(t, json.Unmarshal([]byte(`["seven","nine"]`), &got))
}

func TestUserIDs_Contains(t *testing.T) {
	ids := UserIDs{7, 9}
	require.True(t, ids.Contains(7))
	require.False(t, ids.Contains(12))
}

func TestChat_UnmarshalWithNullName(t *testing.T) {
	var chat Chat
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"chat_name":null,"private":true,"users":[7,9]}`), &chat))
	require.Equal(t, "", chat.Name)
	require.True(t, chat.Private)
}

func TestChat_DisplayName(t *testing.T) {
	require.Equal(t, "pals", Chat{ID: 1, Name: "pals"}.DisplayName())
	require.Equal(t, "chat_1", Chat{ID: 1}.DisplayName())
}
