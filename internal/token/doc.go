// Package token keeps access and ID tokens fresh transparently.
//
// Manager.GetToken returns a non-expired token or a definitive
// ErrNotAuthenticated; it never surfaces transport detail, because the only
// recourse at this layer is restarting the interactive flow. Refreshes for
// the single credential slot are coalesced with singleflight so concurrent
// callers share one round-trip, and every successful refresh is folded back
// into the credential repository's external-change path.
package token
