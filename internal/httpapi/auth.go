package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type ctxKey int

const ctxKeyUsername ctxKey = iota

type session struct {
	username string
	expires  time.Time
}

// sessionStore maps bearer tokens to usernames. Tokens are minted on login,
// dropped on logout, and lazily expired on lookup.
type sessionStore struct {
	tokens *xsync.MapOf[string, session]
}

func newSessionStore() *sessionStore {
	return &sessionStore{tokens: xsync.NewMapOf[string, session]()}
}

func (s *sessionStore) create(username string) (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw[:])
	s.tokens.Store(token, session{username: username, expires: time.Now().Add(sessionTTL)})
	return token, nil
}

func (s *sessionStore) resolve(token string) (string, bool) {
	sess, ok := s.tokens.Load(token)
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expires) {
		s.tokens.Delete(token)
		return "", false
	}
	return sess.username, true
}

func (s *sessionStore) delete(token string) {
	s.tokens.Delete(token)
}

// requestToken extracts the bearer token. Websocket clients cannot set
// headers from the browser API, so a token query parameter is accepted too.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// requireAuth resolves the session token and stores the username in the
// request context; unauthenticated requests get 401.
func (a *api) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		username, ok := a.sessions.resolve(token)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUsername, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated username. Only valid behind requireAuth.
func currentUser(r *http.Request) string {
	username, _ := r.Context().Value(ctxKeyUsername).(string)
	return username
}
