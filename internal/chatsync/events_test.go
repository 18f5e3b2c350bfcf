package chatsync

import (
	"testing"

	"github.com/saravenpi/parley/internal/models"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame_NewChat(t *testing.T) {
	ev, err := DecodeFrame([]byte(`{"event":"new_chat","id":3,"chat_name":"pals","private":false,"users":[7,9]}`))
	require.NoError(t, err)

	newChat, ok := ev.(NewChatEvent)
	require.True(t, ok)
	require.Equal(t, 3, newChat.Chat.ID)
	require.Equal(t, models.UserIDs{7, 9}, newChat.Chat.Users)
}

func TestDecodeFrame_NewMessage(t *testing.T) {
	ev, err := DecodeFrame([]byte(`{"event":"new_message","chat":42}`))
	require.NoError(t, err)

	newMessage, ok := ev.(NewMessageEvent)
	require.True(t, ok)
	require.Equal(t, 42, newMessage.ChatID)
}

func TestDecodeFrame_NewUserAddedWithNestedUsers(t *testing.T) {
	ev, err := DecodeFrame([]byte(`{"event":"new_user_added","id":5,"chat_name":"team","private":false,` +
		`"users":[{"id":7,"username":"ana"},{"id":12,"username":"mia"}]}`))
	require.NoError(t, err)

	added, ok := ev.(MemberAddedEvent)
	require.True(t, ok)
	require.Equal(t, 5, added.Chat.ID)
	require.Equal(t, models.UserIDs{7, 12}, added.Chat.Users)
}

func TestDecodeFrame_UnknownEvent(t *testing.T) {
	_, err := DecodeFrame([]byte(`{"event":"presence","user":7}`))
	require.ErrorIs(t, err, ErrUnknownEvent)
}

func TestDecodeFrame_Malformed(t *testing.T) {
	_, err := DecodeFrame([]byte(`{"event":`))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnknownEvent)
}
