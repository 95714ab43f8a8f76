// Package tokenstore provides durable persistence for the opaque bearer token.
// One key, no expiry logic: absent means anonymous.
package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the single durable key holding the bearer token.
const TokenKey = "auth_token"

// Store is the contract for bearer token persistence. Set overwrites,
// Clear is idempotent. Implementations do not validate token shape or expiry.
type Store interface {
	Set(token string) error
	Get() (string, bool)
	Clear() error
}

// FileStore keeps the token in a single file under a config directory,
// surviving process restarts the way browser localStorage survives reloads.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store rooted at dir. An empty dir
// resolves to the user's config directory under an app-specific folder.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		dir = filepath.Join(base, "pine")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}

	return &FileStore{path: filepath.Join(dir, TokenKey)}, nil
}

// Set overwrites the stored token.
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Get returns the stored token, or false when no token is persisted.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests and embedded use.
type MemStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Set overwrites the stored token.
func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = token != ""
	return nil
}

// Get returns the stored token, or false when no token is held.
func (s *MemStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", false
	}
	return s.token, true
}

// Clear drops the stored token.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
