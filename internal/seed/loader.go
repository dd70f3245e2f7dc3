// Package seed bootstraps the in-memory store from a declarative document,
// useful for demos and development where there is no persistent database to
// come back to.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TheNightmareX/ChaaAt-backend/internal/common/fsutil"
	"github.com/TheNightmareX/ChaaAt-backend/internal/store"
)

// User is one seeded account.
type User struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Chatroom is one seeded room. Members must be seeded users; the first
// member is the creator.
type Chatroom struct {
	Name    string   `json:"name" yaml:"name"`
	Members []string `json:"members" yaml:"members"`
}

// Doc is the root of a seed document.
type Doc struct {
	Users     []User     `json:"users" yaml:"users"`
	Chatrooms []Chatroom `json:"chatrooms" yaml:"chatrooms"`
}

// Load reads a seed document based on its extension. Supports .yaml/.yml
// and .json; a leading '~' in the path is expanded.
func Load(path string) (Doc, error) {
	var doc Doc
	expanded, err := fsutil.ExpandHome(path)
	if err != nil {
		return doc, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return doc, err
	}
	switch ext := strings.ToLower(filepath.Ext(expanded)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return doc, err
		}
	case ".json":
		if err := json.Unmarshal(b, &doc); err != nil {
			return doc, err
		}
	default:
		return doc, fmt.Errorf("unsupported seed extension: %s", ext)
	}
	return doc, nil
}

// Apply creates the document's users and chatrooms in order. It stops on
// the first error so a broken seed is noticed at startup, not later.
func Apply(doc Doc, s *store.Store) error {
	for _, u := range doc.Users {
		if _, err := s.CreateUser(u.Username, u.Password); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	for _, c := range doc.Chatrooms {
		if len(c.Members) == 0 {
			return fmt.Errorf("seed chatroom %s: at least one member required", c.Name)
		}
		room, err := s.CreateChatroom(c.Name, c.Members[0])
		if err != nil {
			return fmt.Errorf("seed chatroom %s: %w", c.Name, err)
		}
		for _, m := range c.Members[1:] {
			if _, err := s.Join(room.ID, m); err != nil {
				return fmt.Errorf("seed chatroom %s member %s: %w", c.Name, m, err)
			}
		}
		// Seeding is bootstrap, not activity: drop the join notifications.
		for _, m := range c.Members {
			s.Broker().PopCached(m)
		}
	}
	return nil
}
