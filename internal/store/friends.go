package store

import (
	"sort"
	"time"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// AddFriend creates a symmetric friendship between source and target and
// commits a friend.create update to both sides.
func (s *Store) AddFriend(source, target string) (types.Friendship, error) {
	if source == target {
		return types.Friendship{}, invalidError{msg: "cannot befriend yourself"}
	}
	if _, ok := s.users.Load(target); !ok {
		return types.Friendship{}, notFoundError{what: "user " + target}
	}
	var dup bool
	s.friendships.Range(func(_ int64, f types.Friendship) bool {
		if (f.Source == source && f.Target == target) || (f.Source == target && f.Target == source) {
			dup = true
			return false
		}
		return true
	})
	if dup {
		return types.Friendship{}, conflictError{msg: "already friends with " + target}
	}

	f := types.Friendship{
		ID:          s.friendSeq.Add(1),
		Source:      source,
		Target:      target,
		CreatedUnix: time.Now().Unix(),
	}
	s.friendships.Store(f.ID, f)

	s.broker.Commit(f.Source, LabelFriendCreate, f)
	s.broker.Commit(f.Target, LabelFriendCreate, f)
	s.broker.NotifyCreated(KindFriendship)
	return f, nil
}

// ListFriends returns the friendships user participates in, oldest first.
func (s *Store) ListFriends(user string) []types.Friendship {
	var out []types.Friendship
	s.friendships.Range(func(_ int64, f types.Friendship) bool {
		if f.Source == user || f.Target == user {
			out = append(out, f)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RemoveFriend deletes a friendship. Only a participant may remove it; the
// deletion is announced to both sides with the friendship id as payload.
func (s *Store) RemoveFriend(user string, id int64) error {
	f, ok := s.friendships.Load(id)
	if !ok {
		return notFoundError{what: "friendship"}
	}
	if f.Source != user && f.Target != user {
		return forbiddenError{msg: "not a participant of this friendship"}
	}
	s.friendships.Delete(id)

	s.broker.Commit(f.Source, LabelFriendDelete, f.ID)
	s.broker.Commit(f.Target, LabelFriendDelete, f.ID)
	return nil
}
