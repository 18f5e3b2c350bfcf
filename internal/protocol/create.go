package protocol

import (
	"context"
	"errors"

	"github.com/saravenpi/parley/internal/api"
	"github.com/saravenpi/parley/internal/models"
)

// NewChatConfig is a proposed chat: the signed-in user plus one selected
// peer, private by default, named only when public.
type NewChatConfig struct {
	Self     models.User
	Selected *models.User
	Private  bool
	ChatName string
}

// CreateOutcome is how a create submission resolved.
type CreateOutcome int

const (
	// OutcomeCreated means the server made a new chat; navigate to it. The
	// directory entry arrives via the new_chat frame, not from here.
	OutcomeCreated CreateOutcome = iota
	// OutcomeExisting means the two users already share a private chat;
	// navigate to that one instead. Deliberate idempotence: creating the
	// same private pair twice never yields two chats.
	OutcomeExisting
	// OutcomeRejected means the server refused the configuration; the
	// dialog stays open showing the reason.
	OutcomeRejected
)

// CreateResult carries the resolved chat id for the two navigating
// outcomes, or the server's reason for a rejection.
type CreateResult struct {
	Outcome CreateOutcome
	ChatID  int
	Reason  string
}

// ChatCreator is the slice of the REST client the creation flow uses.
type ChatCreator interface {
	CreateChat(ctx context.Context, req api.CreateChatRequest) (*api.CreateChatResult, error)
}

// CreateChat validates cfg and, if it passes, submits it. Validation
// failures come back as a Validation without any network call; transport
// failures come back as an error.
func CreateChat(ctx context.Context, client ChatCreator, cfg NewChatConfig) (Validation, *CreateResult, error) {
	if v := ValidateNewChat(cfg.Selected, cfg.Private, cfg.ChatName); !v.OK {
		return v, nil, nil
	}

	result, err := client.CreateChat(ctx, api.CreateChatRequest{
		Private:  cfg.Private,
		ChatName: cfg.ChatName,
		Users:    []int{cfg.Selected.ID, cfg.Self.ID},
	})
	if err != nil {
		var rejected *api.RejectedError
		if errors.As(err, &rejected) {
			return valid, &CreateResult{Outcome: OutcomeRejected, Reason: rejected.Error()}, nil
		}
		return valid, nil, err
	}

	if result.Existing {
		return valid, &CreateResult{Outcome: OutcomeExisting, ChatID: result.ChatID}, nil
	}
	return valid, &CreateResult{Outcome: OutcomeCreated, ChatID: result.ChatID}, nil
}
