// Package claims turns raw token contents into typed authorization facts:
// permissions, organization membership, feature flags, and local
// entitlement lookups.
//
// Claim sets are decoded fresh from the current credential on every lookup
// so they always reflect the latest refresh. Claim-presence queries fail
// soft to absence or empty results; only flow-level operations and typed
// flag mismatches produce hard errors. Arbitrary claim values are carried
// in the Value tagged variant with explicit, fail-soft conversions.
package claims
