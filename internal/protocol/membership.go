package protocol

import (
	"context"

	"github.com/saravenpi/parley/internal/models"
)

// MemberAdder is the slice of the REST client the add-member flow uses.
type MemberAdder interface {
	AddUser(ctx context.Context, chatID int, users []int) (*models.Chat, error)
}

// AddUser validates the selection and submits the chat's member list with
// the new user appended. On success the caller closes the dialog and
// waits: the directory is updated by the new_user_added frame through the
// reconciler, never by a direct local write.
func AddUser(ctx context.Context, client MemberAdder, chat models.Chat, selected *models.User) (Validation, error) {
	if v := ValidateAddUser(selected); !v.OK {
		return v, nil
	}

	users := make([]int, 0, len(chat.Users)+1)
	users = append(users, chat.Users...)
	users = append(users, selected.ID)

	if _, err := client.AddUser(ctx, chat.ID, users); err != nil {
		return valid, err
	}
	return valid, nil
}
