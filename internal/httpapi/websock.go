package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var (
	// wsPongWait bounds how long the peer may stay silent before the
	// connection is considered dead.
	wsPongWait = 40 * time.Second
	// Pings go out well inside the pong window so a live peer always
	// refreshes its read deadline in time.
	wsPingPeriod = (wsPongWait * 9) / 10
	wsWriteWait  = 10 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth happens before the upgrade; cross-origin pages are allowed
	// to connect the same way CORS-enabled fetches are.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleUpdatesWS streams the caller's updates over a websocket: cached
// updates are flushed on connect, then each update is pushed as it arrives.
// Each frame is one [label, data] pair. The wait loop runs through the same
// broker waiter as the long-poll endpoint, so a websocket and a concurrent
// poll for the same user overlap rather than conflict.
func (a *api) handleUpdatesWS(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		if zlog != nil {
			zlog.Debug().Err(err).Str("user", user).Msg("ws upgrade failed")
		}
		return
	}
	defer conn.Close()

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	// Read pump: the client sends nothing meaningful; reading detects close
	// frames and connection loss. Each pong pushes the read deadline out, so
	// a peer that stops answering pings is dropped within wsPongWait.
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		// Drain before parking, every cycle: an update committed while the
		// previous frame was being written lands in the cache, not the waiter.
		for _, u := range a.svc.Broker().PopCached(user) {
			if !wsWriteUpdate(conn, u) {
				return
			}
		}

		u, ok := a.svc.Broker().Next(ctx, user, wsPingPeriod)
		if ctx.Err() != nil {
			return
		}
		if !ok {
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}
		if !wsWriteUpdate(conn, u) {
			return
		}
	}
}

func wsWriteUpdate(conn *websocket.Conn, u any) bool {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(u) == nil
}
