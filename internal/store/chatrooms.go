package store

import (
	"sort"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// CreateChatroom creates a room with creator as its first member.
func (s *Store) CreateChatroom(name, creator string) (types.Chatroom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Chatroom{}, invalidError{msg: "chatroom name is required"}
	}
	if _, ok := s.users.Load(creator); !ok {
		return types.Chatroom{}, notFoundError{what: "user " + creator}
	}
	rec := &chatroomRecord{
		id:          s.roomSeq.Add(1),
		name:        name,
		createdUnix: time.Now().Unix(),
		members:     xsync.NewMapOf[string, int64](),
	}
	rec.members.Store(creator, time.Now().Unix())
	s.chatrooms.Store(rec.id, rec)

	s.broker.NotifyCreated(KindChatroom)
	return rec.snapshot(), nil
}

// GetChatroom returns a room snapshot.
func (s *Store) GetChatroom(id int64) (types.Chatroom, error) {
	rec, ok := s.chatrooms.Load(id)
	if !ok {
		return types.Chatroom{}, notFoundError{what: "chatroom"}
	}
	return rec.snapshot(), nil
}

// ListChatrooms returns all rooms, optionally narrowed to those that
// memberContains belongs to. Ordered by id.
func (s *Store) ListChatrooms(memberContains string) []types.Chatroom {
	var out []types.Chatroom
	s.chatrooms.Range(func(_ int64, rec *chatroomRecord) bool {
		if memberContains != "" {
			if _, ok := rec.members.Load(memberContains); !ok {
				return true
			}
		}
		out = append(out, rec.snapshot())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Join adds user to a room and announces chatroom.join to the members who
// were already present.
func (s *Store) Join(roomID int64, user string) (types.Chatroom, error) {
	if _, ok := s.users.Load(user); !ok {
		return types.Chatroom{}, notFoundError{what: "user " + user}
	}
	rec, ok := s.chatrooms.Load(roomID)
	if !ok {
		return types.Chatroom{}, notFoundError{what: "chatroom"}
	}
	existing := rec.memberNames()
	if _, loaded := rec.members.LoadOrStore(user, time.Now().Unix()); loaded {
		return types.Chatroom{}, conflictError{msg: "already a member"}
	}

	snap := rec.snapshot()
	for _, member := range existing {
		s.broker.Commit(member, LabelChatroomJoin, snap)
	}
	return snap, nil
}

// Members lists a room's member usernames, sorted.
func (s *Store) Members(roomID int64) ([]string, error) {
	rec, ok := s.chatrooms.Load(roomID)
	if !ok {
		return nil, notFoundError{what: "chatroom"}
	}
	return rec.memberNames(), nil
}

// IsMember reports whether user belongs to the room.
func (s *Store) IsMember(roomID int64, user string) bool {
	rec, ok := s.chatrooms.Load(roomID)
	if !ok {
		return false
	}
	_, ok = rec.members.Load(user)
	return ok
}

func (r *chatroomRecord) memberNames() []string {
	var names []string
	r.members.Range(func(name string, _ int64) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

func (r *chatroomRecord) snapshot() types.Chatroom {
	return types.Chatroom{
		ID:          r.id,
		Name:        r.name,
		Members:     r.memberNames(),
		CreatedUnix: r.createdUnix,
	}
}
