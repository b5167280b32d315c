// Package entitlements is the remote client for server-side entitlement
// records. It issues bearer-authenticated, paginated reads against the
// account API; non-200 responses are application-level ServerErrors, not
// transport failures.
package entitlements
