// Package chatsync keeps the signed-in user's chat directory consistent
// across the REST snapshot and the realtime notification stream.
package chatsync

import (
	"log/slog"

	"github.com/saravenpi/parley/internal/models"
)

// Store holds the authoritative, insertion-ordered set of chat summaries
// for one session. It is not safe for concurrent use: every mutation runs
// on the program's update loop.
type Store struct {
	order       []int
	chats       map[int]models.Chat
	initialized bool
	logger      *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		chats:  make(map[int]models.Chat),
		logger: logger,
	}
}

// Initialize seeds the directory from the snapshot. It may be called once
// per session; a second call is a programming error and panics.
func (s *Store) Initialize(chats []models.Chat) {
	if s.initialized {
		panic("chatsync: Store.Initialize called twice")
	}
	s.initialized = true

	for _, chat := range chats {
		if _, ok := s.chats[chat.ID]; ok {
			s.logger.Warn("duplicate chat id in snapshot", "chat", chat.ID)
			continue
		}
		s.order = append(s.order, chat.ID)
		s.chats[chat.ID] = chat
	}
}

// Initialized reports whether the snapshot has been applied.
func (s *Store) Initialized() bool {
	return s.initialized
}

// Upsert inserts the chat if its id is new, otherwise replaces the stored
// summary in place, keeping the original insertion position.
func (s *Store) Upsert(chat models.Chat) {
	if _, ok := s.chats[chat.ID]; !ok {
		s.order = append(s.order, chat.ID)
	}
	s.chats[chat.ID] = chat
}

// IncrementUnread bumps the unread counter for a tracked chat. Unknown ids
// are ignored: the message raced ahead of the snapshot or creation frame.
func (s *Store) IncrementUnread(chatID int) bool {
	chat, ok := s.chats[chatID]
	if !ok {
		s.logger.Debug("unread increment for untracked chat", "chat", chatID)
		return false
	}
	chat.Unread++
	s.chats[chatID] = chat
	return true
}

// ResetUnread clears the unread counter. The chat room calls this when the
// user opens it; nothing else resets the count.
func (s *Store) ResetUnread(chatID int) {
	chat, ok := s.chats[chatID]
	if !ok {
		return
	}
	chat.Unread = 0
	s.chats[chatID] = chat
}

// Get returns a copy of the summary for chatID.
func (s *Store) Get(chatID int) (models.Chat, bool) {
	chat, ok := s.chats[chatID]
	return chat, ok
}

// Snapshot returns the chats in insertion order. The slice and its
// elements are copies; mutating them never touches the store.
func (s *Store) Snapshot() []models.Chat {
	out := make([]models.Chat, 0, len(s.order))
	for _, id := range s.order {
		chat := s.chats[id]
		chat.Users = append(models.UserIDs(nil), chat.Users...)
		out = append(out, chat)
	}
	return out
}

func (s *Store) Len() int {
	return len(s.order)
}
