package store

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

const minPasswordLength = 8

// CreateUser registers a new account. The username doubles as the update
// subscription key, so it must be unique.
func (s *Store) CreateUser(username, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.User{}, invalidError{msg: "username is required"}
	}
	if len(password) < minPasswordLength {
		return types.User{}, invalidError{msg: "password must be at least 8 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}
	rec := &userRecord{
		user:         types.User{Username: username, CreatedUnix: time.Now().Unix()},
		passwordHash: hash,
	}
	if _, loaded := s.users.LoadOrStore(username, rec); loaded {
		return types.User{}, conflictError{msg: "username already taken: " + username}
	}
	return rec.user, nil
}

// GetUser returns the public view of an account.
func (s *Store) GetUser(username string) (types.User, error) {
	rec, ok := s.users.Load(username)
	if !ok {
		return types.User{}, notFoundError{what: "user " + username}
	}
	return rec.user, nil
}

// Authenticate verifies a username/password pair. Missing users and wrong
// passwords are indistinguishable to the caller.
func (s *Store) Authenticate(username, password string) (types.User, error) {
	rec, ok := s.users.Load(username)
	if !ok {
		return types.User{}, badCredentialsError{}
	}
	if bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) != nil {
		return types.User{}, badCredentialsError{}
	}
	return rec.user, nil
}
