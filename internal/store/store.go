// Package store holds the chat domain in memory: users, friendships,
// chatrooms with memberships, and the message log. Every mutation commits
// an update through the injected broker so long-poll and websocket readers
// see it, mirroring what a persistence layer would do post-commit.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/TheNightmareX/ChaaAt-backend/internal/updates"
	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// Created-entity kinds broadcast through the broker.
const (
	KindMessage    = "message"
	KindFriendship = "friendship"
	KindChatroom   = "chatroom"
)

// Update labels committed to per-user keys.
const (
	LabelMessageCreate = "message.create"
	LabelFriendCreate  = "friend.create"
	LabelFriendDelete  = "friend.delete"
	LabelChatroomJoin  = "chatroom.join"
)

type userRecord struct {
	user         types.User
	passwordHash []byte
}

type chatroomRecord struct {
	id          int64
	name        string
	createdUnix int64
	// username -> joined unix seconds
	members *xsync.MapOf[string, int64]
}

// Store is the process-wide in-memory state. Keyed collections use
// lock-free concurrent maps; the message log is an append-only ordered
// slice under an RWMutex because listing relies on id order.
type Store struct {
	broker *updates.Broker

	users       *xsync.MapOf[string, *userRecord]
	friendships *xsync.MapOf[int64, types.Friendship]
	chatrooms   *xsync.MapOf[int64, *chatroomRecord]

	msgMu    sync.RWMutex
	messages []types.Message

	friendSeq atomic.Int64
	roomSeq   atomic.Int64
	msgSeq    atomic.Int64
}

// New constructs a Store publishing through broker.
func New(broker *updates.Broker) *Store {
	return &Store{
		broker:      broker,
		users:       xsync.NewMapOf[string, *userRecord](),
		friendships: xsync.NewMapOf[int64, types.Friendship](),
		chatrooms:   xsync.NewMapOf[int64, *chatroomRecord](),
	}
}

// Broker exposes the injected broker to callers that need to poll it.
func (s *Store) Broker() *updates.Broker { return s.broker }
