package chatsync

import (
	"testing"

	"github.com/saravenpi/parley/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStore_InitializeSeedsInOrder(t *testing.T) {
	s := NewStore(nil)
	s.Initialize([]models.Chat{
		{ID: 3, Name: "three", Users: models.UserIDs{7, 9}},
		{ID: 1, Users: models.UserIDs{7, 2}, Private: true},
		{ID: 2, Name: "two", Users: models.UserIDs{7, 5}},
	})

	require.True(t, s.Initialized())
	require.Equal(t, 3, s.Len())

	snapshot := s.Snapshot()
	ids := []int{snapshot[0].ID, snapshot[1].ID, snapshot[2].ID}
	require.Equal(t, []int{3, 1, 2}, ids, "snapshot order should match insertion order")
}

func TestStore_InitializeTwicePanics(t *testing.T) {
	s := NewStore(nil)
	s.Initialize(nil)
	require.Panics(t, func() { s.Initialize(nil) })
}

func TestStore_UpsertKeepsInsertionOrder(t *testing.T) {
	s := NewStore(nil)
	s.Initialize([]models.Chat{
		{ID: 1, Name: "first"},
		{ID: 2, Name: "second"},
	})

	s.Upsert(models.Chat{ID: 1, Name: "renamed", Users: models.UserIDs{7, 9}})
	s.Upsert(models.Chat{ID: 5, Name: "new"})

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 3)
	require.Equal(t, 1, snapshot[0].ID, "replaced chat keeps its position")
	require.Equal(t, "renamed", snapshot[0].Name)
	require.Equal(t, 5, snapshot[2].ID, "new chat appends")
}

func TestStore_IncrementUnread(t *testing.T) {
	s := NewStore(nil)
	s.Initialize([]models.Chat{{ID: 1}})

	require.True(t, s.IncrementUnread(1))
	require.True(t, s.IncrementUnread(1))

	chat, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, 2, chat.Unread)
}

func TestStore_IncrementUnreadUntrackedIsNoop(t *testing.T) {
	s := NewStore(nil)
	s.Initialize([]models.Chat{{ID: 1}})

	require.False(t, s.IncrementUnread(99))
	require.Equal(t, 1, s.Len())
}

func TestStore_ResetUnread(t *testing.T) {
	s := NewStore(nil)
	s.Initialize([]models.Chat{{ID: 1, Unread: 4}})

	s.ResetUnread(1)
	chat, _ := s.Get(1)
	require.Equal(t, 0, chat.Unread)

	// unknown id is ignored
	s.ResetUnread(99)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(nil)
	s.Initialize([]models.Chat{{ID: 1, Name: "original", Users: models.UserIDs{7, 9}}})

	snapshot := s.Snapshot()
	snapshot[0].Name = "mutated"
	snapshot[0].Users[0] = 999

	chat, _ := s.Get(1)
	require.Equal(t, "original", chat.Name)
	require.Equal(t, 7, chat.Users[0], "member set must not be shared with callers")
}
