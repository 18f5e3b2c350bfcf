package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// UserIDs is a chat's member list as plain user ids. The server sends
// members either as bare ids (chat list, new_chat frames) or as nested
// user objects (new_user_added frames); both decode to ids here.
type UserIDs []int

func (u *UserIDs) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err == nil {
		*u = ids
		return nil
	}

	var nested []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("users field is neither ids nor user objects: %w", err)
	}

	ids = make([]int, len(nested))
	for i, n := range nested {
		ids[i] = n.ID
	}
	*u = ids
	return nil
}

// Contains reports whether id is a member.
func (u UserIDs) Contains(id int) bool {
	for _, v := range u {
		if v == id {
			return true
		}
	}
	return false
}

type Chat struct {
	ID      int     `json:"id"`
	Name    string  `json:"chat_name"`
	Private bool    `json:"private"`
	Users   UserIDs `json:"users"`
	Unread  int     `json:"-"`
}

// DisplayName mirrors the server's fallback for unnamed chats.
func (c Chat) DisplayName() string {
	if c.Name == "" {
		return fmt.Sprintf("chat_%d", c.ID)
	}
	return c.Name
}

func (c Chat) HasUser(id int) bool {
	return c.Users.Contains(id)
}

type Message struct {
	ID      int       `json:"id"`
	Created time.Time `json:"created"`
	User    User      `json:"user"`
	Text    string    `json:"text"`
}
