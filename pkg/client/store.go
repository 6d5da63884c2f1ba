package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sessionFileName is the fixed key under which the one active session
// identifier is persisted locally.
const sessionFileName = "honeypot_session_id"

// SessionStore persists the active session identifier so a restart resumes
// the same session.
type SessionStore interface {
	Load() (string, error)
	Save(sessionID string) error
	Clear() error
}

// FileSessionStore keeps the session identifier in a single file.
type FileSessionStore struct {
	dir string
}

// NewFileSessionStore creates a store rooted at dir.
func NewFileSessionStore(dir string) *FileSessionStore {
	return &FileSessionStore{dir: dir}
}

func (f *FileSessionStore) path() string {
	return filepath.Join(f.dir, sessionFileName)
}

// Load returns the stored identifier, or "" when none has been saved yet.
func (f *FileSessionStore) Load() (string, error) {
	data, err := os.ReadFile(f.path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the identifier, creating the directory if needed.
func (f *FileSessionStore) Save(sessionID string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(f.path(), []byte(sessionID+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the stored identifier. Missing files are not an error.
func (f *FileSessionStore) Clear() error {
	err := os.Remove(f.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session file: %w", err)
	}
	return nil
}
