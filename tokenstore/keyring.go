package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringBackend stores the JSON-encoded token pair in the OS-native
// credential store (macOS Keychain, Windows Credential Manager, or Linux
// Secret Service).
type KeyringBackend struct {
	service string
	user    string
}

// Compile-time check to ensure KeyringBackend implements Backend
var _ Backend = (*KeyringBackend)(nil)

// NewKeyringBackend creates a KeyringBackend using the given service and
// user identifiers.
func NewKeyringBackend(service, user string) (*KeyringBackend, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	return &KeyringBackend{
		service: service,
		user:    user,
	}, nil
}

// Load reads the token pair from the keyring. A missing entry or an entry
// that fails to parse returns (nil, nil).
func (k *KeyringBackend) Load() (*TokenPair, error) {
	secret, err := keyring.Get(k.service, k.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var pair TokenPair
	if err := json.Unmarshal([]byte(secret), &pair); err != nil {
		return nil, nil
	}
	return &pair, nil
}

// Save writes the JSON-encoded token pair, overwriting any existing entry.
func (k *KeyringBackend) Save(pair *TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encoding token pair: %w", err)
	}
	return keyring.Set(k.service, k.user, string(data))
}

// Clear removes the keyring entry. A missing entry is not an error.
func (k *KeyringBackend) Clear() error {
	if err := keyring.Delete(k.service, k.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
