package chatsync

import (
	"context"
	"testing"

	"github.com/saravenpi/parley/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	chats []models.Chat
	err   error
	calls int
}

func (f *fakeFetcher) Chats(ctx context.Context) ([]models.Chat, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.chats, f.err
}

type fakeSubscription struct {
	frames chan []byte
	closed bool
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{frames: make(chan []byte, 8)}
}

func (s *fakeSubscription) Frames() <-chan []byte { return s.frames }
func (s *fakeSubscription) Close()                { s.closed = true }

func TestSession_SnapshotSeedsDirectory(t *testing.T) {
	fetcher := &fakeFetcher{chats: []models.Chat{
		{ID: 1, Private: true, Users: models.UserIDs{7, 9}, Unread: 3},
	}}
	s := NewSession(models.User{ID: 7, Username: "ana"}, fetcher, nil)

	chats, err := s.FetchSnapshot()
	require.NoError(t, err)
	s.Seed(chats)

	chat, ok := s.Store().Get(1)
	require.True(t, ok)
	require.Equal(t, 0, chat.Unread, "snapshot records default to zero unread")
	require.True(t, s.Store().Initialized())
}

func TestSession_CloseCancelsSnapshotFetch(t *testing.T) {
	fetcher := &fakeFetcher{chats: []models.Chat{{ID: 1}}}
	s := NewSession(models.User{ID: 7}, fetcher, nil)

	s.Close()
	_, err := s.FetchSnapshot()
	require.Error(t, err, "a fetch after teardown must not succeed")
}

func TestSession_SeedAfterCloseIsDiscarded(t *testing.T) {
	s := NewSession(models.User{ID: 7}, &fakeFetcher{}, nil)
	s.Close()

	s.Seed([]models.Chat{{ID: 1}})
	require.False(t, s.Store().Initialized(), "a late snapshot must not touch a torn-down directory")
}

func TestSession_ApplyFeedsReconciler(t *testing.T) {
	s := NewSession(models.User{ID: 7}, &fakeFetcher{}, nil)
	s.Seed(nil)

	s.Apply([]byte(`{"event":"new_chat","id":10,"chat_name":"pals","private":false,"users":[7,9]}`))

	_, ok := s.Store().Get(10)
	require.True(t, ok)
}

func TestSession_ApplyAfterCloseIsDropped(t *testing.T) {
	s := NewSession(models.User{ID: 7}, &fakeFetcher{}, nil)
	s.Seed(nil)
	s.Close()

	s.Apply([]byte(`{"event":"new_chat","id":10,"users":[7]}`))
	require.Equal(t, 0, s.Store().Len())
}

func TestSession_AttachReplacesSubscription(t *testing.T) {
	s := NewSession(models.User{ID: 7}, &fakeFetcher{}, nil)

	first := newFakeSubscription()
	second := newFakeSubscription()

	s.Attach(first)
	require.Equal(t, (<-chan []byte)(first.frames), s.Frames())

	s.Attach(second)
	require.True(t, first.closed, "attaching again must retire the previous handle")
	require.False(t, second.closed)
	require.Equal(t, (<-chan []byte)(second.frames), s.Frames())
}

func TestSession_CloseRetiresSubscription(t *testing.T) {
	s := NewSession(models.User{ID: 7}, &fakeFetcher{}, nil)
	sub := newFakeSubscription()
	s.Attach(sub)

	s.Close()
	require.True(t, sub.closed)
	require.Nil(t, s.Frames())
}
