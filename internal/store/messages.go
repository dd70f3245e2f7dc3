package store

import (
	"time"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// AppendMessage appends a message to the log, fans a message.create update
// out to every member of the room, and broadcasts the creation for
// predicate waiters.
func (s *Store) AppendMessage(roomID int64, sender, text string) (types.Message, error) {
	if text == "" {
		return types.Message{}, invalidError{msg: "text is required"}
	}
	rec, ok := s.chatrooms.Load(roomID)
	if !ok {
		return types.Message{}, notFoundError{what: "chatroom"}
	}
	if _, ok := rec.members.Load(sender); !ok {
		return types.Message{}, forbiddenError{msg: "not a member of this chatroom"}
	}

	msg := types.Message{
		ChatroomID: roomID,
		Sender:     sender,
		Text:       text,
		SentUnix:   time.Now().Unix(),
	}
	// Id assignment and append share the lock so the log stays id-ordered.
	s.msgMu.Lock()
	msg.ID = s.msgSeq.Add(1)
	s.messages = append(s.messages, msg)
	s.msgMu.Unlock()

	for _, member := range rec.memberNames() {
		s.broker.Commit(member, LabelMessageCreate, msg)
	}
	s.broker.NotifyCreated(KindMessage)
	return msg, nil
}

// ListMessages returns messages visible to user: those in rooms the user
// belongs to, with id >= fromID, ascending. roomID narrows to one room when
// non-zero.
func (s *Store) ListMessages(user string, fromID, roomID int64) []types.Message {
	s.msgMu.RLock()
	defer s.msgMu.RUnlock()
	var out []types.Message
	for _, m := range s.messages {
		if m.ID < fromID {
			continue
		}
		if roomID != 0 && m.ChatroomID != roomID {
			continue
		}
		if !s.IsMember(m.ChatroomID, user) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// HasMessages reports whether ListMessages would return at least one
// message. This is the predicate handed to the broker's WaitUntil.
func (s *Store) HasMessages(user string, fromID, roomID int64) bool {
	s.msgMu.RLock()
	defer s.msgMu.RUnlock()
	for _, m := range s.messages {
		if m.ID >= fromID && (roomID == 0 || m.ChatroomID == roomID) && s.IsMember(m.ChatroomID, user) {
			return true
		}
	}
	return false
}
