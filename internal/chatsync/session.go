package chatsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saravenpi/parley/internal/models"
)

// SnapshotFetcher is the slice of the REST client the session needs to
// seed the directory.
type SnapshotFetcher interface {
	Chats(ctx context.Context) ([]models.Chat, error)
}

// Subscription is a handle on the socket's frame stream. Closing it
// detaches the handler; the channel is closed when the handle is retired
// or the connection goes away.
type Subscription interface {
	Frames() <-chan []byte
	Close()
}

// Session owns the directory for one signed-in user: the store, the
// reconciler writing to it, the snapshot fetch, and at most one socket
// subscription. It is created at sign-in and closed at sign-out.
type Session struct {
	User models.User

	store   *Store
	rec     *Reconciler
	fetcher SnapshotFetcher
	sub     Subscription
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func NewSession(user models.User, fetcher SnapshotFetcher, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	store := NewStore(logger)
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		User:    user,
		store:   store,
		rec:     NewReconciler(store, user.ID, logger),
		fetcher: fetcher,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Store exposes the directory for read-only rendering via Snapshot.
func (s *Session) Store() *Store {
	return s.store
}

// FetchSnapshot retrieves the chat list once. It is tied to the session's
// lifetime: closing the session cancels an in-flight fetch, so a late
// response can never touch a torn-down directory.
func (s *Session) FetchSnapshot() ([]models.Chat, error) {
	chats, err := s.fetcher.Chats(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chat snapshot: %w", err)
	}
	for i := range chats {
		chats[i].Unread = 0
	}
	return chats, nil
}

// Seed applies the fetched snapshot to the directory. Call it from the
// update loop only, and at most once.
func (s *Session) Seed(chats []models.Chat) {
	if s.closed {
		s.logger.Warn("discarding snapshot for closed session")
		return
	}
	s.store.Initialize(chats)
}

// Apply feeds one socket frame through the reconciler. Frames arriving
// after Close are dropped.
func (s *Session) Apply(frame []byte) {
	if s.closed {
		return
	}
	s.rec.Apply(frame)
}

// Attach adopts a socket subscription, retiring any previous one. The
// session holds exactly one handle at a time; handlers are replaced,
// never accumulated.
func (s *Session) Attach(sub Subscription) {
	if s.sub != nil {
		s.sub.Close()
	}
	s.sub = sub
}

// Frames returns the attached subscription's channel, or nil when no
// subscription is attached.
func (s *Session) Frames() <-chan []byte {
	if s.sub == nil {
		return nil
	}
	return s.sub.Frames()
}

// Close tears the session down: cancels the snapshot fetch if still in
// flight and retires the socket subscription.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	if s.sub != nil {
		s.sub.Close()
		s.sub = nil
	}
}
