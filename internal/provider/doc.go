// Package provider resolves OIDC provider metadata from an issuer URL.
//
// The Discoverer interface is the discovery collaborator boundary; the
// default implementation uses go-oidc discovery with a TTL cache and
// singleflight deduplication of concurrent fetches.
package provider
