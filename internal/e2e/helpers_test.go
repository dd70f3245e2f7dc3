package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TheNightmareX/ChaaAt-backend/internal/httpapi"
	"github.com/TheNightmareX/ChaaAt-backend/internal/store"
	"github.com/TheNightmareX/ChaaAt-backend/internal/updates"
	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// newServer starts a test server over the full stack: broker, store, mux.
func newServer(t *testing.T, cfg updates.Config) (*httptest.Server, *store.Store) {
	t.Helper()
	st := store.New(updates.NewWithConfig(cfg))
	srv := httptest.NewServer(httpapi.NewMux(st))
	t.Cleanup(srv.Close)
	return srv, st
}

func httpDo(t *testing.T, method, url, token string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

// signup registers a user and returns a session token for them.
func signup(t *testing.T, baseURL, username string) string {
	t.Helper()
	creds := []byte(`{"username":"` + username + `","password":"password-123"}`)
	resp, body := httpDo(t, http.MethodPost, baseURL+"/users", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status=%d body=%s", username, resp.StatusCode, string(body))
	}
	resp, body = httpDo(t, http.MethodPost, baseURL+"/auth", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("login %s: status=%d body=%s", username, resp.StatusCode, string(body))
	}
	var login types.LoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("login json: %v body=%s", err, string(body))
	}
	return login.Token
}

// waitForWaiter polls until user has a parked long poll, or fails the test.
func waitForWaiter(t *testing.T, st *store.Store, user string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !st.Broker().HasWaiter(user) {
		if time.Now().After(deadline) {
			t.Fatalf("no long poll parked for %s", user)
		}
		time.Sleep(time.Millisecond)
	}
}
