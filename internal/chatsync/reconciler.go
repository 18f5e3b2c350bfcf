package chatsync

import (
	"errors"
	"log/slog"

	"github.com/saravenpi/parley/internal/models"
)

// Reconciler applies socket frames to a Store under the directory merge
// rules. It holds no state of its own beyond the store it writes to and
// the id of the signed-in user; frames are applied one at a time, in
// delivery order.
type Reconciler struct {
	store  *Store
	userID int
	logger *slog.Logger
}

func NewReconciler(store *Store, userID int, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, userID: userID, logger: logger}
}

// Apply decodes one frame and merges it into the directory. Malformed or
// unrecognized frames are dropped with a log line; no frame ever stops the
// stream.
func (r *Reconciler) Apply(frame []byte) {
	ev, err := DecodeFrame(frame)
	if err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			r.logger.Debug("ignoring unrecognized socket event", "error", err)
		} else {
			r.logger.Warn("dropping malformed socket frame", "error", err)
		}
		return
	}

	switch ev := ev.(type) {
	case NewChatEvent:
		r.applyNewChat(ev.Chat)
	case NewMessageEvent:
		r.applyNewMessage(ev.ChatID)
	case MemberAddedEvent:
		r.applyMemberAdded(ev.Chat)
	}
}

func (r *Reconciler) applyNewChat(chat models.Chat) {
	if !chat.HasUser(r.userID) {
		return
	}
	// At-least-once delivery: a redelivered new_chat must not reset the
	// summary we already track.
	if _, ok := r.store.Get(chat.ID); ok {
		r.logger.Debug("duplicate new_chat delivery", "chat", chat.ID)
		return
	}
	chat.Unread = 0
	r.store.Upsert(chat)
}

func (r *Reconciler) applyNewMessage(chatID int) {
	// Messages for chats the snapshot or creation frame hasn't landed yet
	// are dropped; the unread count is a hint, not a ledger.
	if !r.store.IncrementUnread(chatID) {
		r.logger.Debug("dropping message for untracked chat", "chat", chatID)
	}
}

func (r *Reconciler) applyMemberAdded(chat models.Chat) {
	if chat.HasUser(r.userID) {
		// Covers the signed-in user being the one just added: the chat may
		// be entirely new to this directory.
		existing, ok := r.store.Get(chat.ID)
		if ok {
			chat.Unread = existing.Unread
		} else {
			chat.Unread = 0
		}
		r.store.Upsert(chat)
		return
	}

	// Not a member (anymore, or never): refresh the member set only if the
	// chat is already tracked.
	if existing, ok := r.store.Get(chat.ID); ok {
		existing.Users = chat.Users
		r.store.Upsert(existing)
	}
}
