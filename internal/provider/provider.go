package provider

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/sync/singleflight"

	"authgate/pkg/logging"
)

// Metadata is the subset of the provider's discovery document the client
// needs: the endpoints authorization, token exchange, and logout talk to.
type Metadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint,omitempty"`
	JWKSURI               string `json:"jwks_uri,omitempty"`
	EndSessionEndpoint    string `json:"end_session_endpoint,omitempty"`
}

// Discoverer resolves a provider's endpoint metadata from its issuer URL.
// Discovery is a network round-trip and is treated as a black box: it either
// yields usable metadata or fails.
type Discoverer interface {
	Discover(ctx context.Context, issuerURL string) (*Metadata, error)
}

// metadataCacheTTL is the time-to-live for cached discovery metadata.
// A 30-minute TTL balances caching efficiency with timely endpoint updates.
const metadataCacheTTL = 30 * time.Minute

type cacheEntry struct {
	metadata  *Metadata
	fetchedAt time.Time
}

// OIDCDiscoverer discovers provider metadata via the OIDC well-known
// endpoint. Results are cached per issuer with a TTL, and concurrent
// discoveries for the same issuer are deduplicated.
type OIDCDiscoverer struct {
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[string]*cacheEntry

	group singleflight.Group
}

// NewOIDCDiscoverer creates a discoverer. A nil httpClient uses a default
// client with a 30-second timeout.
func NewOIDCDiscoverer(httpClient *http.Client) *OIDCDiscoverer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OIDCDiscoverer{
		httpClient: httpClient,
		cache:      make(map[string]*cacheEntry),
	}
}

// Discover fetches the provider's discovery document for the issuer,
// returning cached metadata when fresh. Concurrent calls for the same issuer
// collapse into one fetch.
func (d *OIDCDiscoverer) Discover(ctx context.Context, issuerURL string) (*Metadata, error) {
	d.mu.RLock()
	if entry, ok := d.cache[issuerURL]; ok && time.Since(entry.fetchedAt) < metadataCacheTTL {
		d.mu.RUnlock()
		return entry.metadata, nil
	}
	d.mu.RUnlock()

	result, err, _ := d.group.Do(issuerURL, func() (interface{}, error) {
		// Double-check the cache after acquiring the singleflight slot.
		d.mu.RLock()
		if entry, ok := d.cache[issuerURL]; ok && time.Since(entry.fetchedAt) < metadataCacheTTL {
			d.mu.RUnlock()
			return entry.metadata, nil
		}
		d.mu.RUnlock()

		return d.doDiscover(ctx, issuerURL)
	})
	if err != nil {
		return nil, err
	}

	return result.(*Metadata), nil
}

func (d *OIDCDiscoverer) doDiscover(ctx context.Context, issuerURL string) (*Metadata, error) {
	ctx = oidc.ClientContext(ctx, d.httpClient)

	p, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("OIDC discovery failed for issuer %s: %w", issuerURL, err)
	}

	var metadata Metadata
	if err := p.Claims(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode discovery document: %w", err)
	}

	d.mu.Lock()
	d.cache[issuerURL] = &cacheEntry{metadata: &metadata, fetchedAt: time.Now()}
	d.mu.Unlock()

	logging.Debug("Discovery", "Discovered provider metadata for issuer=%s (auth=%s, token=%s)",
		issuerURL, metadata.AuthorizationEndpoint, metadata.TokenEndpoint)

	return &metadata, nil
}
