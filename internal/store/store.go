package store

import "sync"

// SecretStore is the durable secure persistence boundary for credential
// blobs. Implementations store opaque byte blobs under string keys; they do
// not interpret the contents.
//
// Get reports found=false (with a nil error) when no blob exists for the key.
// Delete of a missing key is success.
type SecretStore interface {
	Get(key string) (blob []byte, found bool, err error)
	Put(key string, blob []byte) error
	Delete(key string) error
	Exists(key string) (bool, error)
}

// MemoryStore is an in-memory SecretStore. It is used when no durable
// persistence is configured, and as the store double in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the stored blob.
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true, nil
}

func (s *MemoryStore) Put(key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.blobs[key] = stored
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) Exists(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.blobs[key]
	return ok, nil
}
