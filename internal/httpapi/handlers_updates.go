package httpapi

import (
	"net/http"
	"time"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// handleGetUpdates is the combined consumer protocol: drain the cache pool
// first; only when it is empty park the request on the next update. The
// cache drain happens immediately before the waiter is installed, which is
// what closes the lost-wakeup window for commits racing the poll.
//
//	@Summary  Long-poll the next updates for the current user
//	@Produce  json
//	@Success  200 {array} types.Update
//	@Router   /updates [get]
func (a *api) handleGetUpdates(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	lvl := requestLogLevel(r)
	start := time.Now()

	data := a.svc.Broker().PopCached(user)
	if len(data) == 0 {
		// Hold the request. Shutdown and client disconnect both release it.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if u, ok := a.svc.Broker().Next(ctx, user, 0); ok {
			data = append(data, u)
		}
		if r.Context().Err() != nil {
			return
		}
	}
	if data == nil {
		data = []types.Update{}
	}
	if lvl >= LevelDebug && zlog != nil {
		zlog.Debug().Str("user", user).Int("updates", len(data)).Dur("held", time.Since(start)).Msg("poll done")
	}
	writeJSON(w, http.StatusOK, data)
}

// handleClearUpdates drains and discards the caller's pending updates.
//
//	@Summary  Discard pending updates
//	@Success  204
//	@Router   /updates [delete]
func (a *api) handleClearUpdates(w http.ResponseWriter, r *http.Request) {
	a.svc.Broker().PopCached(currentUser(r))
	w.WriteHeader(http.StatusNoContent)
}
