// Package store provides the secure persistence boundary for credentials.
//
// The SecretStore interface treats credential state as an opaque blob keyed
// by a fixed identifier; the session repository owns serialization. Three
// implementations are provided:
//
//   - KeyringStore: OS keyring (default on desktop hosts)
//   - FileStore: 0600-permission files for headless hosts
//   - MemoryStore: non-durable, used in tests and as a last-resort fallback
package store
