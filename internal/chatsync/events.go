package chatsync

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saravenpi/parley/internal/models"
)

// Socket event tags recognized by the reconciler. Anything else is dropped.
const (
	eventNewChat      = "new_chat"
	eventNewMessage   = "new_message"
	eventNewUserAdded = "new_user_added"
)

// ErrUnknownEvent marks frames whose event tag this client does not handle.
var ErrUnknownEvent = errors.New("chatsync: unknown event")

// Event is one decoded socket notification.
type Event interface {
	event()
}

// NewChatEvent announces a freshly created chat. Members arrive as ids.
type NewChatEvent struct {
	Chat models.Chat
}

// NewMessageEvent announces a message in an existing chat. The frame
// carries nothing beyond the chat id.
type NewMessageEvent struct {
	ChatID int
}

// MemberAddedEvent announces a membership change, carrying the chat's full
// record. Members arrive as nested user objects and are normalized to ids
// during decoding.
type MemberAddedEvent struct {
	Chat models.Chat
}

func (NewChatEvent) event()     {}
func (NewMessageEvent) event()  {}
func (MemberAddedEvent) event() {}

// DecodeFrame turns one socket text frame into a typed event.
func DecodeFrame(data []byte) (Event, error) {
	var probe struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("chatsync: malformed frame: %w", err)
	}

	switch probe.Event {
	case eventNewChat:
		var chat models.Chat
		if err := json.Unmarshal(data, &chat); err != nil {
			return nil, fmt.Errorf("chatsync: malformed new_chat frame: %w", err)
		}
		return NewChatEvent{Chat: chat}, nil

	case eventNewMessage:
		var body struct {
			Chat int `json:"chat"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("chatsync: malformed new_message frame: %w", err)
		}
		return NewMessageEvent{ChatID: body.Chat}, nil

	case eventNewUserAdded:
		var chat models.Chat
		if err := json.Unmarshal(data, &chat); err != nil {
			return nil, fmt.Errorf("chatsync: malformed new_user_added frame: %w", err)
		}
		return MemberAddedEvent{Chat: chat}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, probe.Event)
}
