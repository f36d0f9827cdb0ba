package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/user/ems-go/users"
)

// Session is what the client remembers between runs: the token and the user it was
// issued for.
type Session struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Authenticated reports whether s carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// SessionStore keeps the session in a JSON file readable only by the current user.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath returns <user config dir>/ems/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "ems", "session.json"), nil
}

func (s *SessionStore) Path() string { return s.path }

// Load returns the saved session. A missing, unreadable or corrupt file yields nil,
// which guards treat as "not logged in".
func (s *SessionStore) Load() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || !sess.Authenticated() {
		return nil
	}
	return &sess
}

// Save writes sess, creating the directory if needed.
func (s *SessionStore) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
