package store

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the service name under which credentials are
// stored in the OS keyring.
const DefaultKeyringService = "authgate"

// KeyringStore is a SecretStore backed by the operating system keyring
// (Keychain on macOS, Secret Service on Linux, Credential Manager on
// Windows). Blobs are base64-encoded because keyring values are strings.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed store scoped to the given service
// name. An empty service falls back to DefaultKeyringService.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{service: service}
}

func (s *KeyringStore) Get(key string) ([]byte, bool, error) {
	value, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("keyring read failed: %w", err)
	}

	blob, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, false, fmt.Errorf("keyring entry is not valid base64: %w", err)
	}
	return blob, true, nil
}

func (s *KeyringStore) Put(key string, blob []byte) error {
	value := base64.StdEncoding.EncodeToString(blob)
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keyring write failed: %w", err)
	}
	return nil
}

func (s *KeyringStore) Delete(key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

func (s *KeyringStore) Exists(key string) (bool, error) {
	_, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("keyring read failed: %w", err)
	}
	return true, nil
}
