package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

func urlParamInt64(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return v, err == nil
}

func (a *api) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends := a.svc.ListFriends(currentUser(r))
	if friends == nil {
		friends = []types.Friendship{}
	}
	writeJSON(w, http.StatusOK, friends)
}

func (a *api) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req types.CreateFriendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	f, err := a.svc.AddFriend(currentUser(r), req.Target)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (a *api) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid friendship id")
		return
	}
	if err := a.svc.RemoveFriend(currentUser(r), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleListChatrooms(w http.ResponseWriter, r *http.Request) {
	rooms := a.svc.ListChatrooms(r.URL.Query().Get("member_contains"))
	if rooms == nil {
		rooms = []types.Chatroom{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (a *api) handleCreateChatroom(w http.ResponseWriter, r *http.Request) {
	var req types.CreateChatroomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	room, err := a.svc.CreateChatroom(req.Name, currentUser(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (a *api) handleListMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid chatroom id")
		return
	}
	members, err := a.svc.Members(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// handleJoinChatroom adds the current user to the room.
func (a *api) handleJoinChatroom(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid chatroom id")
		return
	}
	room, err := a.svc.Join(id, currentUser(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}
