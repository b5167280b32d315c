// Package session owns the process-wide credential slot.
//
// Repository is the single owner of credential state: an in-memory cache
// backed by the secure store, with lazy one-shot hydration and persistence
// on every mutation. Other components read state through Current and never
// keep their own copy beyond a single request.
//
// The repository is constructed explicitly and injected into consumers; the
// "one session per process" semantics come from wiring, not global state.
package session
