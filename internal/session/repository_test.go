package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/store"
)

// countingStore records how often each operation runs.
type countingStore struct {
	*store.MemoryStore
	mu   sync.Mutex
	gets int
	puts int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: store.NewMemoryStore()}
}

func (s *countingStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.MemoryStore.Get(key)
}

func (s *countingStore) Put(key string, blob []byte) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return s.MemoryStore.Put(key, blob)
}

func (s *countingStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(string) ([]byte, bool, error) { return nil, false, errors.New("store down") }
func (brokenStore) Put(string, []byte) error         { return errors.New("store down") }
func (brokenStore) Delete(string) error              { return errors.New("store down") }
func (brokenStore) Exists(string) (bool, error)      { return false, errors.New("store down") }

func testState() State {
	return State{
		AccessToken:       "access-token",
		IDToken:           "id-token",
		RefreshToken:      "refresh-token",
		AccessTokenExpiry: time.Now().Add(time.Hour).Truncate(time.Second),
		IsAuthorized:      true,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	secrets := store.NewMemoryStore()
	repo := NewRepository(secrets)

	_, ok := repo.Current()
	assert.False(t, ok)

	state := testState()
	require.NoError(t, repo.Replace(state))

	got, ok := repo.Current()
	require.True(t, ok)
	assert.True(t, got.Equal(state))

	// A fresh repository over the same store sees the persisted state.
	rehydrated := NewRepository(secrets)
	got, ok = rehydrated.Current()
	require.True(t, ok)
	assert.True(t, got.Equal(state))
}

func TestRepositoryHydratesOnce(t *testing.T) {
	secrets := newCountingStore()
	repo := NewRepository(secrets)

	for i := 0; i < 5; i++ {
		_, ok := repo.Current()
		assert.False(t, ok)
	}

	assert.Equal(t, 1, secrets.getCount())
}

func TestRepositoryHydratesOnceWhenPopulated(t *testing.T) {
	secrets := newCountingStore()
	seed := NewRepository(secrets)
	require.NoError(t, seed.Replace(testState()))

	repo := NewRepository(secrets)
	for i := 0; i < 5; i++ {
		_, ok := repo.Current()
		assert.True(t, ok)
	}

	assert.Equal(t, 1, secrets.getCount())
}

func TestRepositoryClearIsIdempotent(t *testing.T) {
	repo := NewRepository(store.NewMemoryStore())
	require.NoError(t, repo.Replace(testState()))

	require.NoError(t, repo.Clear())
	_, ok := repo.Current()
	assert.False(t, ok)

	// Clearing again is still success.
	require.NoError(t, repo.Clear())
}

func TestRepositoryCacheWinsOnPersistFailure(t *testing.T) {
	repo := NewRepository(brokenStore{})

	state := testState()
	err := repo.Replace(state)
	assert.ErrorIs(t, err, ErrPersistFailed)

	// The cache still serves the new state for this process.
	got, ok := repo.Current()
	require.True(t, ok)
	assert.True(t, got.Equal(state))
}

func TestRepositoryHydrationFailureTreatedAsEmpty(t *testing.T) {
	repo := NewRepository(brokenStore{})

	_, ok := repo.Current()
	assert.False(t, ok)
}

func TestRepositoryMalformedBlobTreatedAsEmpty(t *testing.T) {
	secrets := store.NewMemoryStore()
	require.NoError(t, secrets.Put("credentials", []byte("not json")))

	repo := NewRepository(secrets)
	_, ok := repo.Current()
	assert.False(t, ok)
}

func TestRepositoryNotifyPersists(t *testing.T) {
	secrets := store.NewMemoryStore()
	repo := NewRepository(secrets)

	state := testState()
	require.NoError(t, repo.Notify(state))

	got, ok := repo.Current()
	require.True(t, ok)
	assert.True(t, got.Equal(state))

	blob, found, err := secrets.Get("credentials")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEmpty(t, blob)
}

func TestStateExpiry(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		state   State
		expired bool
	}{
		{
			name:    "future expiry is not expired",
			state:   State{AccessToken: "t", AccessTokenExpiry: now.Add(time.Hour)},
			expired: false,
		},
		{
			name:    "past expiry is expired",
			state:   State{AccessToken: "t", AccessTokenExpiry: now.Add(-time.Minute)},
			expired: true,
		},
		{
			name:    "zero expiry is treated as expired",
			state:   State{AccessToken: "t"},
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.state.IsAccessTokenExpired(now))
		})
	}
}
