package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultStorageDir is the default directory for file-based credential
// storage, relative to the user's home directory.
const DefaultStorageDir = ".config/authgate/credentials"

// FileStore is a SecretStore backed by files on disk. It exists for headless
// hosts where no OS keyring is available.
//
// SECURITY: files are created with 0600 permissions and the storage directory
// with 0700. Blob contents are never logged.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir. An empty dir
// resolves to DefaultStorageDir under the user's home directory. The
// directory is created if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(homeDir, DefaultStorageDir)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential storage directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// path maps a key to a filesystem-safe file path. Keys are hashed so callers
// may use arbitrary strings.
func (s *FileStore) path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:16])+".json")
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	// #nosec G304 -- path is derived from a hashed key, not user input
	blob, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read credential file: %w", err)
	}
	return blob, true, nil
}

func (s *FileStore) Put(key string, blob []byte) error {
	if err := os.WriteFile(s.path(key), blob, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

func (s *FileStore) Exists(key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat credential file: %w", err)
	}
	return true, nil
}
