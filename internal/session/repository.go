package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"authgate/internal/store"
	"authgate/pkg/logging"
)

// credentialKey is the fixed secret-store key for the single credential slot.
const credentialKey = "credentials"

// ErrPersistFailed indicates the in-memory state was updated but the durable
// write to the secret store failed. The cache remains the source of truth for
// the rest of the process; callers decide whether to trust the session.
var ErrPersistFailed = errors.New("failed to persist credential state")

// Repository owns the process-wide credential slot. It caches the current
// state in memory, lazily hydrates it from the secret store once, and
// persists every mutation. All mutation paths (interactive flow, token
// refresh, external notification) funnel through Replace so cache and store
// are reconciled after every call.
type Repository struct {
	mu       sync.Mutex
	store    store.SecretStore
	cached   *State
	hydrated bool
}

// NewRepository creates a repository over the given secret store.
func NewRepository(secrets store.SecretStore) *Repository {
	return &Repository{store: secrets}
}

// Current returns the cached credential state, hydrating it from the secret
// store on first use. Once a cache value is established (including "empty"),
// the store is never re-read for the process lifetime except via mutation.
func (r *Repository) Current() (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hydrateLocked()

	if r.cached == nil {
		return State{}, false
	}
	return *r.cached, true
}

// hydrateLocked performs the one-shot load from the secret store.
// REQUIRES: r.mu held.
func (r *Repository) hydrateLocked() {
	if r.hydrated {
		return
	}
	r.hydrated = true

	blob, found, err := r.store.Get(credentialKey)
	if err != nil {
		logging.Warn("Session", "Failed to read credential state from secure store: %v", err)
		return
	}
	if !found {
		return
	}

	var state State
	if err := json.Unmarshal(blob, &state); err != nil {
		logging.Warn("Session", "Stored credential state is malformed, treating as absent: %v", err)
		return
	}

	r.cached = &state
}

// Replace updates the cached state and durably persists it. The cache is
// updated before the durable write, so concurrent readers see the new value
// even if persistence fails. A persistence failure is reported as
// ErrPersistFailed so callers can decide whether to trust the session.
func (r *Repository) Replace(state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cached = &state
	r.hydrated = true

	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	if err := r.store.Put(credentialKey, blob); err != nil {
		logging.Warn("Session", "Credential state updated in memory but durable write failed: %v", err)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	logging.Debug("Session", "Credential state persisted (authorized=%t, has_refresh_token=%t)",
		state.IsAuthorized, state.HasRefreshToken())
	return nil
}

// Clear drops the cached state and the durable record. Clearing an
// already-empty repository is success.
func (r *Repository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cached = nil
	r.hydrated = true

	if err := r.store.Delete(credentialKey); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	logging.Debug("Session", "Credential state cleared")
	return nil
}

// Notify folds an externally-originated state change (a refresh performed by
// the token lifecycle layer) through the same persistence path as every
// other mutation. The token manager registers the repository at construction
// and calls this after each successful refresh.
func (r *Repository) Notify(state State) error {
	logging.Debug("Session", "External credential state change received")
	return r.Replace(state)
}
