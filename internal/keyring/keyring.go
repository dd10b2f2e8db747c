package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/streakline/internal/constants"
)

var (
	// ErrNotFound is returned when no session secret is stored in the keyring
	ErrNotFound = errors.New("session secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// SessionStore keeps the remote session secret for one project in the OS keyring.
type SessionStore struct {
	service string
	user    string
}

// NewSessionStore returns a store scoped to the given remote project.
func NewSessionStore(projectID string) *SessionStore {
	user := constants.DefaultKeyringUser
	if projectID != "" {
		user = user + ":" + projectID
	}
	return &SessionStore{service: constants.AppName, user: user}
}

// Get retrieves the stored session secret.
// Returns ErrNotFound if nothing is stored.
func (s *SessionStore) Get() (string, error) {
	secret, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores the session secret, replacing any previous value.
func (s *SessionStore) Set(secret string) error {
	if secret == "" {
		return errors.New("session secret cannot be empty")
	}
	if err := keyring.Set(s.service, s.user, secret); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// Delete removes the stored session secret.
func (s *SessionStore) Delete() error {
	if err := keyring.Delete(s.service, s.user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	// ErrNotFound still means the keyring answered
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
