package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract exercises the SecretStore behavior every backend must share.
func storeContract(t *testing.T, s SecretStore) {
	t.Helper()

	// Missing key reads as absent, not as an error.
	_, found, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	exists, err := s.Exists("missing")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is success.
	require.NoError(t, s.Delete("missing"))

	blob := []byte(`{"access_token":"secret"}`)
	require.NoError(t, s.Put("credentials", blob))

	got, found, err := s.Get("credentials")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, blob, got)

	exists, err = s.Exists("credentials")
	require.NoError(t, err)
	assert.True(t, exists)

	// Put overwrites.
	updated := []byte(`{"access_token":"rotated"}`)
	require.NoError(t, s.Put("credentials", updated))
	got, found, err = s.Get("credentials")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, updated, got)

	require.NoError(t, s.Delete("credentials"))
	_, found, err = s.Get("credentials")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStoreCopiesBlobs(t *testing.T) {
	s := NewMemoryStore()

	blob := []byte("original")
	require.NoError(t, s.Put("key", blob))
	blob[0] = 'X'

	got, found, err := s.Get("key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("original"), got)

	// Mutating the returned blob does not affect the stored copy.
	got[0] = 'Y'
	got2, _, err := s.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got2)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	storeContract(t, s)
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put("credentials", []byte("secret")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := os.Stat(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "credentials")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestFileStoreKeysDoNotCollide(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put("key/one", []byte("first")))
	require.NoError(t, s.Put("key/two", []byte("second")))

	got, found, err := s.Get("key/one")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("first"), got)
}
