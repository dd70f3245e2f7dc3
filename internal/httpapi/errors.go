package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/TheNightmareX/ChaaAt-backend/internal/store"
	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeStoreError maps domain errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case store.IsConflict(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	case store.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, err.Error())
	case store.IsInvalid(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case store.IsBadCredentials(err):
		writeJSONError(w, http.StatusUnauthorized, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
