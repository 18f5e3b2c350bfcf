package socket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// startServer runs a websocket endpoint that writes the given frames to
// every client, then holds the connection open.
func startServer(t *testing.T, frames ...string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, frame := range frames {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recvFrame(t *testing.T, frames <-chan []byte) []byte {
	t.Helper()
	select {
	case data, ok := <-frames:
		require.True(t, ok, "frame channel closed early")
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestConn_DeliversFramesInOrder(t *testing.T) {
	url := startServer(t,
		`{"event":"new_message","chat":1}`,
		`{"event":"new_message","chat":2}`,
		`{"event":"new_message","chat":3}`,
	)

	conn, err := Dial(context.Background(), url, "tok-123")
	require.NoError(t, err)
	defer conn.Close()

	sub := conn.Subscribe()
	require.JSONEq(t, `{"event":"new_message","chat":1}`, string(recvFrame(t, sub.Frames())))
	require.JSONEq(t, `{"event":"new_message","chat":2}`, string(recvFrame(t, sub.Frames())))
	require.JSONEq(t, `{"event":"new_message","chat":3}`, string(recvFrame(t, sub.Frames())))
}

func TestConn_DialSendsToken(t *testing.T) {
	gotAuth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))
	t.Cleanup(srv.Close)

	conn, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), "tok-123")
	require.NoError(t, err)
	defer conn.Close()

	require.Equal(t, "Token tok-123", <-gotAuth)
}

func TestConn_SubscribeReplacesPreviousHandle(t *testing.T) {
	url := startServer(t)

	conn, err := Dial(context.Background(), url, "")
	require.NoError(t, err)
	defer conn.Close()

	first := conn.Subscribe()
	second := conn.Subscribe()

	select {
	case _, ok := <-first.Frames():
		require.False(t, ok, "the retired handle's channel must be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("retired handle's channel never closed")
	}

	select {
	case _, ok := <-second.Frames():
		require.False(t, ok, "no frame expected on the live handle")
	default:
	}
}

func TestConn_CloseEndsSubscription(t *testing.T) {
	url := startServer(t)

	conn, err := Dial(context.Background(), url, "")
	require.NoError(t, err)

	sub := conn.Subscribe()
	conn.Close()

	select {
	case _, ok := <-sub.Frames():
		require.False(t, ok, "closing the connection must close the frame channel")
	case <-time.After(2 * time.Second):
		t.Fatal("frame channel never closed after Close")
	}
}

func TestSubscription_CloseDetaches(t *testing.T) {
	url := startServer(t)

	conn, err := Dial(context.Background(), url, "")
	require.NoError(t, err)
	defer conn.Close()

	sub := conn.Subscribe()
	sub.Close()
	sub.Close() // closing twice is fine

	_, ok := <-sub.Frames()
	require.False(t, ok)
}
