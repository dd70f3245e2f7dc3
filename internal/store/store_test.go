package store

import (
	"testing"

	"github.com/TheNightmareX/ChaaAt-backend/internal/updates"
	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(updates.New())
}

func mustUser(t *testing.T, s *Store, name string) types.User {
	t.Helper()
	u, err := s.CreateUser(name, "password-123")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func TestCreateUser_DuplicateAndValidation(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	if _, err := s.CreateUser("alice", "password-123"); !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := s.CreateUser("", "password-123"); !IsInvalid(err) {
		t.Fatalf("expected invalid username, got %v", err)
	}
	if _, err := s.CreateUser("bob", "short"); !IsInvalid(err) {
		t.Fatalf("expected invalid password, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	if _, err := s.Authenticate("alice", "password-123"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := s.Authenticate("alice", "wrong-password"); !IsBadCredentials(err) {
		t.Fatalf("expected bad credentials, got %v", err)
	}
	if _, err := s.Authenticate("nobody", "password-123"); !IsBadCredentials(err) {
		t.Fatalf("expected bad credentials for unknown user, got %v", err)
	}
}

func TestAddFriend_CommitsToBothSides(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	mustUser(t, s, "bob")

	f, err := s.AddFriend("alice", "bob")
	if err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	for _, side := range []string{"alice", "bob"} {
		got := s.Broker().PopCached(side)
		if len(got) != 1 || got[0].Label != LabelFriendCreate {
			t.Fatalf("%s: expected one friend.create update, got %+v", side, got)
		}
	}
	if friends := s.ListFriends("bob"); len(friends) != 1 || friends[0].ID != f.ID {
		t.Fatalf("ListFriends(bob) = %+v", friends)
	}
}

func TestAddFriend_Errors(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	mustUser(t, s, "bob")
	if _, err := s.AddFriend("alice", "alice"); !IsInvalid(err) {
		t.Fatalf("expected invalid for self-friending, got %v", err)
	}
	if _, err := s.AddFriend("alice", "nobody"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.AddFriend("alice", "bob"); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	// The relation is symmetric, so the reverse direction is a duplicate.
	if _, err := s.AddFriend("bob", "alice"); !IsConflict(err) {
		t.Fatalf("expected conflict on reverse duplicate, got %v", err)
	}
}

func TestRemoveFriend(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	mustUser(t, s, "bob")
	mustUser(t, s, "carol")
	f, err := s.AddFriend("alice", "bob")
	if err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	s.Broker().PopCached("alice")
	s.Broker().PopCached("bob")

	if err := s.RemoveFriend("carol", f.ID); !IsForbidden(err) {
		t.Fatalf("expected forbidden for non-participant, got %v", err)
	}
	if err := s.RemoveFriend("bob", f.ID); err != nil {
		t.Fatalf("RemoveFriend: %v", err)
	}
	if err := s.RemoveFriend("bob", f.ID); !IsNotFound(err) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
	got := s.Broker().PopCached("alice")
	if len(got) != 1 || got[0].Label != LabelFriendDelete {
		t.Fatalf("expected friend.delete update, got %+v", got)
	}
	if friends := s.ListFriends("alice"); len(friends) != 0 {
		t.Fatalf("friendship not removed: %+v", friends)
	}
}

func TestChatroomJoinAndAnnounce(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	mustUser(t, s, "bob")

	room, err := s.CreateChatroom("general", "alice")
	if err != nil {
		t.Fatalf("CreateChatroom: %v", err)
	}
	if len(room.Members) != 1 || room.Members[0] != "alice" {
		t.Fatalf("creator not a member: %+v", room)
	}

	if _, err := s.Join(room.ID, "bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	// Only pre-existing members are told about the join.
	if got := s.Broker().PopCached("alice"); len(got) != 1 || got[0].Label != LabelChatroomJoin {
		t.Fatalf("expected chatroom.join for alice, got %+v", got)
	}
	if got := s.Broker().PopCached("bob"); len(got) != 0 {
		t.Fatalf("joiner should not be notified about itself, got %+v", got)
	}
	if _, err := s.Join(room.ID, "bob"); !IsConflict(err) {
		t.Fatalf("expected conflict on double join, got %v", err)
	}

	members, err := s.Members(room.ID)
	if err != nil || len(members) != 2 {
		t.Fatalf("Members = %v, %v", members, err)
	}
}

func TestListChatrooms_MemberContains(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	mustUser(t, s, "bob")
	if _, err := s.CreateChatroom("a-room", "alice"); err != nil {
		t.Fatalf("CreateChatroom: %v", err)
	}
	if _, err := s.CreateChatroom("b-room", "bob"); err != nil {
		t.Fatalf("CreateChatroom: %v", err)
	}
	if all := s.ListChatrooms(""); len(all) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(all))
	}
	got := s.ListChatrooms("bob")
	if len(got) != 1 || got[0].Name != "b-room" {
		t.Fatalf("member filter wrong: %+v", got)
	}
}

func TestAppendMessage_FanOutAndVisibility(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	mustUser(t, s, "bob")
	mustUser(t, s, "carol")
	room, err := s.CreateChatroom("general", "alice")
	if err != nil {
		t.Fatalf("CreateChatroom: %v", err)
	}
	if _, err := s.Join(room.ID, "bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	s.Broker().PopCached("alice")

	if _, err := s.AppendMessage(room.ID, "carol", "hi"); !IsForbidden(err) {
		t.Fatalf("expected forbidden for non-member, got %v", err)
	}
	msg, err := s.AppendMessage(room.ID, "alice", "hello")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	for _, member := range []string{"alice", "bob"} {
		got := s.Broker().PopCached(member)
		if len(got) != 1 || got[0].Label != LabelMessageCreate {
			t.Fatalf("%s: expected message.create, got %+v", member, got)
		}
		if m, ok := got[0].Data.(types.Message); !ok || m.ID != msg.ID {
			t.Fatalf("%s: payload is not the message: %+v", member, got[0].Data)
		}
	}
	if got := s.Broker().PopCached("carol"); len(got) != 0 {
		t.Fatalf("non-member received update: %+v", got)
	}

	if msgs := s.ListMessages("carol", 0, 0); len(msgs) != 0 {
		t.Fatalf("non-member sees messages: %+v", msgs)
	}
	if msgs := s.ListMessages("bob", 0, 0); len(msgs) != 1 {
		t.Fatalf("member should see 1 message, got %d", len(msgs))
	}
	if s.HasMessages("bob", msg.ID+1, 0) {
		t.Fatal("from filter should exclude the message")
	}
	if !s.HasMessages("bob", msg.ID, room.ID) {
		t.Fatal("expected HasMessages true for member")
	}
}

func TestListMessages_FromAndRoomFilters(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")
	r1, _ := s.CreateChatroom("one", "alice")
	r2, _ := s.CreateChatroom("two", "alice")
	m1, _ := s.AppendMessage(r1.ID, "alice", "a")
	m2, _ := s.AppendMessage(r2.ID, "alice", "b")
	m3, _ := s.AppendMessage(r1.ID, "alice", "c")

	got := s.ListMessages("alice", m1.ID+1, 0)
	if len(got) != 2 || got[0].ID != m2.ID || got[1].ID != m3.ID {
		t.Fatalf("from filter wrong: %+v", got)
	}
	got = s.ListMessages("alice", 0, r1.ID)
	if len(got) != 2 || got[0].ID != m1.ID || got[1].ID != m3.ID {
		t.Fatalf("room filter wrong: %+v", got)
	}
}
