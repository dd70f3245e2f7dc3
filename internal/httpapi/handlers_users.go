package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// decodeJSON enforces the content type and body size limit, then decodes
// into dst. It writes the error response itself and reports success.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleRegister creates an account.
//
//	@Summary  Register a new user
//	@Accept   json
//	@Produce  json
//	@Param    body body types.RegisterRequest true "credentials"
//	@Success  201 {object} types.User
//	@Router   /users [post]
func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := a.svc.CreateUser(req.Username, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// handleLogin verifies credentials and mints a session token.
//
//	@Summary  Log in
//	@Accept   json
//	@Produce  json
//	@Param    body body types.LoginRequest true "credentials"
//	@Success  201 {object} types.LoginResponse
//	@Router   /auth [post]
func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	user, err := a.svc.Authenticate(req.Username, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	token, err := a.sessions.create(user.Username)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	if zlog != nil {
		zlog.Info().Str("user", user.Username).Msg("login")
	}
	writeJSON(w, http.StatusCreated, types.LoginResponse{User: user, Token: token})
}

func (a *api) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	user, err := a.svc.GetUser(currentUser(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.sessions.delete(requestToken(r))
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.svc.GetUser(chi.URLParam(r, "username"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
