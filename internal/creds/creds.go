// Package creds handles persistence of the LibraryMS token pair.
// Tokens are stored in ~/.config/lms/credentials.toml.
package creds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

// file is the on-disk shape. The two key names are fixed; both values are
// always written and cleared together.
type file struct {
	Access  string `toml:"access_token"`
	Refresh string `toml:"refresh_token"`
}

const defaultCredsPath = "~/.config/lms/credentials.toml"

// DefaultPath returns the default credentials file path.
func DefaultPath() string {
	return defaultCredsPath
}

// Store caches the persisted token pair and writes changes through to disk.
// It implements api.TokenProvider for outgoing requests.
type Store struct {
	path string

	mu   sync.RWMutex
	pair api.TokenPair
}

var _ api.TokenProvider = (*Store)(nil)

// Open resolves the credentials path and loads any persisted pair. A missing
// or unreadable file yields an empty pair rather than an error; the session
// treats that as "not logged in".
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve credentials path: %w", err)
	}
	s := &Store{path: resolved}
	s.pair = readPair(resolved)
	return s, nil
}

// AccessToken returns the cached access token, or empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.Access
}

// Pair returns the cached token pair.
func (s *Store) Pair() api.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

// HasToken reports whether an access token is available for rehydration.
func (s *Store) HasToken() bool {
	return strings.TrimSpace(s.AccessToken()) != ""
}

// Save persists both tokens and updates the cache. The file is created with
// owner-only permissions since it holds live credentials.
func (s *Store) Save(pair api.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	encoded, err := toml.Marshal(file{Access: pair.Access, Refresh: pair.Refresh})
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, encoded, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}

	s.pair = pair
	return nil
}

// Clear removes the credentials file and empties the cache. Both tokens go
// together; a missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = api.TokenPair{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func readPair(path string) api.TokenPair {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return api.TokenPair{}
	}
	var f file
	if err := toml.Unmarshal(bytes, &f); err != nil {
		return api.TokenPair{}
	}
	return api.TokenPair{Access: f.Access, Refresh: f.Refresh}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultCredsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
