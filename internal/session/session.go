// Package session persists the instructor's bearer credential between CLI
// invocations. One token, one file, mode 0600. The lms client is the only
// writer besides an explicit login/logout; it clears the store whenever the
// service answers 401 so the next IsValid() reports false everywhere.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned by Token when no credential is stored.
var ErrNoToken = errors.New("session: not logged in")

type tokenFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// Store holds the credential file path and a small in-process cache.
type Store struct {
	path string

	mu     sync.Mutex
	cached string
	loaded bool
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is $HOME/.course-studio/token.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".course-studio", "token.json")
	}
	return filepath.Join(home, ".course-studio", "token.json")
}

// Token returns the stored credential, or ErrNoToken.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		if s.cached == "" {
			return "", ErrNoToken
		}
		return s.cached, nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return "", ErrNoToken
		}
		return "", fmt.Errorf("session: read token file: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", fmt.Errorf("session: corrupt token file %s: %w", s.path, err)
	}

	s.cached = tf.Token
	s.loaded = true
	if s.cached == "" {
		return "", ErrNoToken
	}
	return s.cached, nil
}

// Save writes the credential to disk, creating the parent dir if needed.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir: %w", err)
	}

	b, err := json.Marshal(tokenFile{Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("session: write token file: %w", err)
	}

	s.cached = token
	s.loaded = true
	return nil
}

// Clear removes the credential. Called on logout and on any 401.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	s.loaded = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove token file: %w", err)
	}
	return nil
}

// IsValid reports whether a credential is present and, when it parses as a
// JWT, not yet expired. The signature is never checked: the client has no
// key material, expiry is the only claim it can act on locally.
func (s *Store) IsValid() bool {
	tok, err := s.Token()
	if err != nil {
		return false
	}

	claims := jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, &claims)
	if err != nil {
		// Opaque token. Present counts as valid; the server has the
		// final word on every call anyway.
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return time.Now().Before(claims.ExpiresAt.Time)
}
