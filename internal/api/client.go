// Package api is the REST side of the chat server: login, chat and user
// listings, chat creation and membership updates. Realtime notifications
// arrive separately over the socket.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saravenpi/parley/internal/models"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient builds a client for the server at baseURL. Redirects are not
// followed: a duplicate-chat response is a 302 whose body carries the
// existing chat's id, and that body is the payload we want.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// SetToken installs the session token sent on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, &RequestError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, &RequestError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if resp.StatusCode >= 400 {
		return resp.StatusCode, &RejectedError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, &RequestError{Op: op, Err: err}
		}
	}
	return resp.StatusCode, nil
}

// readDetail pulls the human-readable message out of a DRF-style error
// body, falling back to the raw text.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(data))
}

// LoginResult is the POST /login/ response.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates and installs the returned token on this client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if _, err := c.do(ctx, "login", http.MethodPost, "/login/", body, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Chats fetches the signed-in user's chat list.
func (c *Client) Chats(ctx context.Context) ([]models.Chat, error) {
	var chats []models.Chat
	if _, err := c.do(ctx, "list chats", http.MethodGet, "/api/chats/", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// Users fetches every registered user.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if _, err := c.do(ctx, "list users", http.MethodGet, "/api/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type CreateChatRequest struct {
	Private  bool   `json:"private"`
	ChatName string `json:"chat_name"`
	Users    []int  `json:"users"`
}

// CreateChatResult distinguishes a freshly created chat from an existing
// private chat the server redirected to.
type CreateChatResult struct {
	ChatID   int
	Existing bool
}

// CreateChat submits a new chat configuration. Three outcomes: created
// (the new id), found (the server redirects to the private chat the two
// users already share), or a *RejectedError.
func (c *Client) CreateChat(ctx context.Context, req CreateChatRequest) (*CreateChatResult, error) {
	var raw json.RawMessage
	status, err := c.do(ctx, "create chat", http.MethodPost, "/api/chats/", req, &raw)
	if err != nil {
		return nil, err
	}

	if status == http.StatusFound {
		var body struct {
			RedirectTo int `json:"redirect_to"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, &RequestError{Op: "create chat", Err: err}
		}
		return &CreateChatResult{ChatID: body.RedirectTo, Existing: true}, nil
	}

	var chat models.Chat
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, &RequestError{Op: "create chat", Err: err}
	}
	return &CreateChatResult{ChatID: chat.ID}, nil
}

// AddUser submits the chat's new member list. The directory itself is
// updated by the resulting new_user_added frame, not by this response.
func (c *Client) AddUser(ctx context.Context, chatID int, users []int) (*models.Chat, error) {
	body := struct {
		Users []int  `json:"users"`
		Event string `json:"event"`
	}{Users: users, Event: "new_user_added"}

	var chat models.Chat
	path := fmt.Sprintf("/api/chats/%d/", chatID)
	if _, err := c.do(ctx, "add user", http.MethodPatch, path, body, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// ChatDetail is a chat record with its message history attached.
type ChatDetail struct {
	models.Chat
	Messages []models.Message `json:"chat_messages"`
}

// ChatDetail fetches one chat with its messages.
func (c *Client) ChatDetail(ctx context.Context, chatID int) (*ChatDetail, error) {
	var detail ChatDetail
	path := fmt.Sprintf("/api/chats/%d/", chatID)
	if _, err := c.do(ctx, "chat detail", http.MethodGet, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SendMessage posts a message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int, text string) (*models.Message, error) {
	body := struct {
		Chat int    `json:"chat"`
		Text string `json:"text"`
	}{Chat: chatID, Text: text}

	var msg models.Message
	if _, err := c.do(ctx, "send message", http.MethodPost, "/api/messages/", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
