// Package credential persists the small pieces of client-only state
// that must survive restarts: the bearer token and, when the user opts
// in, the remembered username/password pair. Values live in the system
// keyring under fixed keys; they are set on login success and cleared
// on logout or when the server rejects the token.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "taskmaster"

// Keyring entry keys.
const (
	keyToken    = "taskmaster_token"
	keyUsername = "taskmaster_username"
	keyPassword = "taskmaster_password"
)

// Store is a keyring-backed key-value store for auth state. It is
// injected into the app rather than accessed as ambient global state.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskmaster/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskmaster-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token() string {
	return s.get(keyToken)
}

// SetToken stores the bearer token.
func (s *Store) SetToken(token string) error {
	return s.set(keyToken, token)
}

// ClearToken removes the stored bearer token.
func (s *Store) ClearToken() error {
	return s.remove(keyToken)
}

// RememberedLogin returns the stored username/password pair. ok is
// false when no pair is remembered.
func (s *Store) RememberedLogin() (username, password string, ok bool) {
	username = s.get(keyUsername)
	password = s.get(keyPassword)
	return username, password, username != ""
}

// SetRememberedLogin stores the username/password pair for pre-filling
// the login form.
func (s *Store) SetRememberedLogin(username, password string) error {
	if err := s.set(keyUsername, username); err != nil {
		return err
	}
	return s.set(keyPassword, password)
}

// ClearRememberedLogin removes the stored username/password pair.
func (s *Store) ClearRememberedLogin() error {
	if err := s.remove(keyUsername); err != nil {
		return err
	}
	return s.remove(keyPassword)
}

// ClearAll removes everything this store manages. Used on logout and
// on auth expiry.
func (s *Store) ClearAll() error {
	if err := s.ClearToken(); err != nil {
		return err
	}
	return s.ClearRememberedLogin()
}

func (s *Store) get(key string) string {
	item, err := s.ring.Get(key)
	if err != nil {
		return ""
	}
	return string(item.Data)
}

func (s *Store) set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

func (s *Store) remove(key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
