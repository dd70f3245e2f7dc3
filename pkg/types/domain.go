package types

import (
	"encoding/json"
	"fmt"
)

// Update is a single not-yet-delivered state change addressed to a user.
// On the wire it is a two-element array: [label, data]. The label names the
// mutation (e.g. "message.create"); data is the serialized instance or, for
// deletions, the primary key.
type Update struct {
	Label string `json:"-"`
	Data  any    `json:"-"`
}

// MarshalJSON encodes the update as a [label, data] pair.
func (u Update) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{u.Label, u.Data})
}

// UnmarshalJSON decodes a [label, data] pair.
func (u *Update) UnmarshalJSON(b []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &u.Label); err != nil {
		return fmt.Errorf("update label: %w", err)
	}
	if len(pair[1]) > 0 {
		var data any
		if err := json.Unmarshal(pair[1], &data); err != nil {
			return fmt.Errorf("update data: %w", err)
		}
		u.Data = data
	}
	return nil
}

// User is the public view of an account. Password hashes never leave the store.
type User struct {
	// Unique account name; doubles as the update subscription key.
	// example: alice
	Username string `json:"username" example:"alice"`
	// Account creation time in unix seconds.
	// example: 1700000000
	CreatedUnix int64 `json:"created_unix" example:"1700000000"`
}

// Friendship is a symmetric relation between two users. Either side may
// delete it; updates about it are committed to both sides.
type Friendship struct {
	// example: 3
	ID int64 `json:"id" example:"3"`
	// User who initiated the relation.
	// example: alice
	Source string `json:"source" example:"alice"`
	// User who was added.
	// example: bob
	Target string `json:"target" example:"bob"`
	// example: 1700000000
	CreatedUnix int64 `json:"created_unix" example:"1700000000"`
}

// Chatroom is a named room with a flat member list.
type Chatroom struct {
	// example: 1
	ID int64 `json:"id" example:"1"`
	// example: general
	Name string `json:"name" example:"general"`
	// Usernames of current members.
	Members []string `json:"members"`
	// example: 1700000000
	CreatedUnix int64 `json:"created_unix" example:"1700000000"`
}

// Message is one chat message in a room.
type Message struct {
	// Monotonically increasing across all rooms; clients page with ?from=.
	// example: 42
	ID int64 `json:"id" example:"42"`
	// example: 1
	ChatroomID int64 `json:"chatroom" example:"1"`
	// example: alice
	Sender string `json:"sender" example:"alice"`
	// example: hello there
	Text string `json:"text" example:"hello there"`
	// example: 1700000000
	SentUnix int64 `json:"sent_unix" example:"1700000000"`
}
