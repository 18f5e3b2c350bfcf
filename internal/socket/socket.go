// Package socket maintains the notification connection. The server pushes
// UTF-8 JSON text frames, in order, at-least-once; this package hands them
// to exactly one subscriber at a time.
package socket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 4096
	frameBuffer    = 256
)

// Conn is a connected notification socket with its read loop running.
type Conn struct {
	ws     *websocket.Conn
	logger *slog.Logger

	mu  sync.Mutex
	sub *Subscription

	closeOnce sync.Once
}

// Dial connects to the notification endpoint and starts reading frames.
// Frames received while no subscription is attached are dropped.
func Dial(ctx context.Context, rawURL, token string) (*Conn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Token "+token)
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, header)
	if err != nil {
		return nil, fmt.Errorf("socket: dialing %s: %w", rawURL, err)
	}
	ws.SetReadLimit(maxMessageSize)

	c := &Conn{ws: ws, logger: slog.Default()}
	go c.readLoop()
	return c, nil
}

// SetLogger replaces the connection's logger.
func (c *Conn) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
}

func (c *Conn) log() *slog.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logger
}

// Subscription is the handle one consumer holds on the frame stream.
// Subscribing again retires the previous handle, so stale consumers can
// never keep receiving: the handler is replaced, never accumulated.
type Subscription struct {
	conn   *Conn
	frames chan []byte
	closed bool
}

// Frames delivers raw text frames in arrival order. The channel closes
// when the handle is retired or the connection dies.
func (s *Subscription) Frames() <-chan []byte {
	return s.frames
}

// Close retires the handle.
func (s *Subscription) Close() {
	s.conn.retire(s)
}

// Subscribe attaches a new consumer, retiring any previous subscription.
func (c *Conn) Subscribe() *Subscription {
	sub := &Subscription{conn: c, frames: make(chan []byte, frameBuffer)}

	c.mu.Lock()
	old := c.sub
	c.sub = sub
	c.mu.Unlock()

	if old != nil {
		c.retire(old)
	}
	return sub
}

func (c *Conn) retire(s *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub == s {
		c.sub = nil
	}
	if !s.closed {
		s.closed = true
		close(s.frames)
	}
}

func (c *Conn) readLoop() {
	defer func() {
		c.mu.Lock()
		sub := c.sub
		c.mu.Unlock()
		if sub != nil {
			c.retire(sub)
		}
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log().Error("socket read failed", "error", err)
			}
			return
		}

		c.mu.Lock()
		if c.sub != nil && !c.sub.closed {
			select {
			case c.sub.frames <- data:
			default:
				// Consumer fell too far behind; the stream is at-least-once
				// and later frames for the same chat reconverge.
				c.logger.Warn("dropping frame, subscriber buffer full")
			}
		}
		c.mu.Unlock()
	}
}

// Close shuts the connection down and retires the current subscription.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.ws.Close()
	})
}
