// Package protocol implements the client-side chat-creation and
// add-member flows: pure validation up front, then a submit that maps the
// server's outcomes. Neither flow writes to the directory; server-confirmed
// state always re-enters through the socket reconciler.
package protocol

import (
	"strings"

	"github.com/saravenpi/parley/internal/models"
)

// Validation is the result shape both dialogs render: either ok, or a
// message re-shown in the form.
type Validation struct {
	OK      bool
	Message string
}

var valid = Validation{OK: true}

// ValidateNewChat checks a proposed chat configuration. Rules, in order:
// a peer must be selected, and a public chat needs a non-blank name.
func ValidateNewChat(selected *models.User, private bool, chatName string) Validation {
	if selected == nil {
		return Validation{Message: "You must select a user from the list"}
	}
	if !private && strings.TrimSpace(chatName) == "" {
		return Validation{Message: "You must specify a name for the chat"}
	}
	return valid
}

// ValidateAddUser checks an add-member request. The candidate list only
// ever shows non-members, so membership needs no re-check here.
func ValidateAddUser(selected *models.User) Validation {
	if selected == nil {
		return Validation{Message: "You must select a user from the list"}
	}
	return valid
}
