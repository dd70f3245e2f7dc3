package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TheNightmareX/ChaaAt-backend/internal/store"
	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

func queryInt64(r *http.Request, name string, def int64) (int64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

// handleListMessages returns the messages visible to the caller. When the
// filtered result is empty it holds the request, waiting for the result to
// become non-empty, instead of answering empty right away. The wait is
// bounded by the broker's poll timeout and released by shutdown or client
// disconnect.
//
//	@Summary  List messages, long-polling while empty
//	@Produce  json
//	@Param    from query int false "lowest message id to include" default(1)
//	@Param    chatroom query int false "restrict to one chatroom"
//	@Success  200 {array} types.Message
//	@Router   /messages [get]
func (a *api) handleListMessages(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	from, ok := queryInt64(r, "from", 1)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid from parameter")
		return
	}
	room, ok := queryInt64(r, "chatroom", 0)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid chatroom parameter")
		return
	}

	msgs := a.svc.ListMessages(user, from, room)
	if len(msgs) == 0 {
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		a.svc.Broker().WaitUntil(ctx, store.KindMessage, 0, func() bool {
			return a.svc.HasMessages(user, from, room)
		})
		if requestLogLevel(r) >= LevelDebug && zlog != nil {
			zlog.Debug().Str("user", user).Dur("waited", time.Since(start)).Msg("messages wait done")
		}
		msgs = a.svc.ListMessages(user, from, room)
	}
	if msgs == nil {
		msgs = []types.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (a *api) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req types.CreateMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := a.svc.AppendMessage(req.ChatroomID, currentUser(r), req.Text)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
