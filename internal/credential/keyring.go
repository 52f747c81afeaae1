package credential

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

const (
	serviceName = "inbox"
	sessionKey  = "session-cookie"
)

// ErrNoSession is returned when no session cookie has been stored.
var ErrNoSession = errors.New("no stored session")

// Vault stores the backend session cookie in the system keyring.
type Vault struct {
	ring keyring.Keyring
}

// Open returns a Vault backed by the first available system keyring,
// falling back to an encrypted file under configDir.
func Open(configDir string) (*Vault, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(configDir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("inbox-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Vault{ring: ring}, nil
}

// NewVault wraps an existing keyring.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// SessionCookie returns the stored session cookie, or ErrNoSession.
func (v *Vault) SessionCookie() (string, error) {
	item, err := v.ring.Get(sessionKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("getting session cookie: %w", err)
	}
	if len(item.Data) == 0 {
		return "", ErrNoSession
	}
	return string(item.Data), nil
}

// SaveSessionCookie stores value, replacing any previous cookie.
func (v *Vault) SaveSessionCookie(value string) error {
	if value == "" {
		return fmt.Errorf("session cookie must not be empty")
	}

	err := v.ring.Set(keyring.Item{
		Key:   sessionKey,
		Data:  []byte(value),
		Label: "inbox session",
	})
	if err != nil {
		return fmt.Errorf("saving session cookie: %w", err)
	}
	return nil
}

// ClearSessionCookie removes the stored cookie. Clearing when nothing is
// stored is not an error.
func (v *Vault) ClearSessionCookie() error {
	err := v.ring.Remove(sessionKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting session cookie: %w", err)
	}
	return nil
}
