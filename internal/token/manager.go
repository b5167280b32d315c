package token

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"authgate/internal/authflow"
	"authgate/internal/config"
	"authgate/internal/provider"
	"authgate/internal/session"
	"authgate/pkg/logging"
)

// Kind selects which token GetToken returns.
type Kind int

const (
	// KindAccess requests the access token.
	KindAccess Kind = iota
	// KindID requests the ID token.
	KindID
)

// refreshExpiryBuffer is the margin applied when deciding whether the cached
// access token is still usable. It accounts for clock skew, network latency,
// and long-running operations.
const refreshExpiryBuffer = 60 * time.Second

// refreshKey is the singleflight key for the single credential slot.
const refreshKey = "refresh"

// sdkName identifies this client on refresh calls for provider-side
// telemetry attribution.
const sdkName = "authgate-go"

// Pair is one refreshed token generation. Pairs are immutable snapshots:
// a later refresh never mutates a pair already handed to a caller.
type Pair struct {
	AccessToken string
	IDToken     string
}

// Manager exposes "get a valid token": it returns a non-expired access
// token (refreshing if needed) or a definitive failure. Concurrent callers
// coalesce onto at most one in-flight refresh round-trip.
type Manager struct {
	cfg        config.Config
	repo       *session.Repository
	discoverer provider.Discoverer
	httpClient *http.Client
	version    string

	group singleflight.Group
	now   func() time.Time
}

// NewManager creates a token lifecycle manager. The repository is registered
// as the recipient of refresh-originated state changes. A nil httpClient
// uses a default client with a 30-second timeout.
func NewManager(cfg config.Config, repo *session.Repository, discoverer provider.Discoverer, httpClient *http.Client, version string) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if version == "" {
		version = "dev"
	}
	return &Manager{
		cfg:        cfg,
		repo:       repo,
		discoverer: discoverer,
		httpClient: httpClient,
		version:    version,
		now:        time.Now,
	}
}

// GetToken returns a fresh token of the requested kind, refreshing the
// credential if the access token is missing or expired. Every failure maps
// to ErrNotAuthenticated: the caller's only recourse is to restart the
// interactive flow, so finer-grained errors add no actionable value here.
func (m *Manager) GetToken(ctx context.Context, kind Kind) (string, error) {
	pair, err := m.getPair(ctx)
	if err != nil {
		return "", err
	}

	switch kind {
	case KindID:
		if pair.IDToken == "" {
			return "", fmt.Errorf("%w: no ID token in session", authflow.ErrNotAuthenticated)
		}
		return pair.IDToken, nil
	default:
		return pair.AccessToken, nil
	}
}

// GetTokenPair returns the access and ID tokens of the same generation.
func (m *Manager) GetTokenPair(ctx context.Context) (accessToken, idToken string, err error) {
	pair, err := m.getPair(ctx)
	if err != nil {
		return "", "", err
	}
	return pair.AccessToken, pair.IDToken, nil
}

func (m *Manager) getPair(ctx context.Context) (Pair, error) {
	state, ok := m.repo.Current()
	if !ok || !state.IsAuthorized {
		return Pair{}, fmt.Errorf("%w: no session", authflow.ErrNotAuthenticated)
	}

	if m.isUsable(state) {
		return Pair{AccessToken: state.AccessToken, IDToken: state.IDToken}, nil
	}

	// The refresh is keyed on the single credential slot: all concurrent
	// callers block on one round-trip and observe the same generation.
	result, err, _ := m.group.Do(refreshKey, func() (interface{}, error) {
		// Re-read after acquiring the slot; an earlier caller's refresh may
		// already have landed.
		current, ok := m.repo.Current()
		if !ok || !current.IsAuthorized {
			return Pair{}, fmt.Errorf("%w: no session", authflow.ErrNotAuthenticated)
		}
		if m.isUsable(current) {
			return Pair{AccessToken: current.AccessToken, IDToken: current.IDToken}, nil
		}

		refreshed, err := m.refresh(ctx, current)
		if err != nil {
			return Pair{}, err
		}
		return Pair{AccessToken: refreshed.AccessToken, IDToken: refreshed.IDToken}, nil
	})
	if err != nil {
		return Pair{}, err
	}

	return result.(Pair), nil
}

// isUsable reports whether the access token can be returned without a
// refresh round-trip.
func (m *Manager) isUsable(state session.State) bool {
	if !state.HasAccessToken() {
		return false
	}
	if state.AccessTokenExpiry.IsZero() {
		return false
	}
	return m.now().Add(refreshExpiryBuffer).Before(state.AccessTokenExpiry)
}

// refresh performs a refresh-token grant and folds the result back through
// the repository's external-change path. Refresh exhaustion clears the
// repository: a failed refresh must never leave half-authenticated state.
func (m *Manager) refresh(ctx context.Context, state session.State) (session.State, error) {
	if !state.HasRefreshToken() {
		m.clearAfterFailure()
		return session.State{}, fmt.Errorf("%w: session has no refresh token", authflow.ErrNotAuthenticated)
	}

	metadata, err := m.discoverer.Discover(ctx, m.cfg.IssuerURL)
	if err != nil {
		m.clearAfterFailure()
		return session.State{}, fmt.Errorf("%w: discovery failed: %w", authflow.ErrNotAuthenticated, err)
	}

	refreshed, err := m.doRefresh(ctx, metadata.TokenEndpoint, state)
	if err != nil {
		m.clearAfterFailure()
		return session.State{}, fmt.Errorf("%w: %w", authflow.ErrNotAuthenticated, err)
	}

	if err := m.repo.Notify(refreshed); err != nil {
		// Cache wins: the refreshed tokens are usable for this process even
		// though the durable write failed.
		logging.Warn("TokenManager", "Refreshed session could not be durably persisted: %v", err)
	}

	return refreshed, nil
}

func (m *Manager) clearAfterFailure() {
	if err := m.repo.Clear(); err != nil {
		logging.Warn("TokenManager", "Failed to clear credential state after refresh failure: %v", err)
	}
}

// doRefresh runs the refresh-token grant against the provider's token
// endpoint, attributing the call to this SDK.
func (m *Manager) doRefresh(ctx context.Context, tokenEndpoint string, state session.State) (session.State, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", state.RefreshToken)
	data.Set("client_id", m.cfg.ClientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return session.State{}, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Authgate-SDK", sdkName+"/"+m.version)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return session.State{}, fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return session.State{}, fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Response bodies may carry sensitive hints; log at debug only.
		logging.Debug("TokenManager", "Token refresh failed: status=%d body=%s", resp.StatusCode, string(body))
		return session.State{}, fmt.Errorf("token refresh failed with status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return session.State{}, fmt.Errorf("failed to parse refresh response: %w", err)
	}

	refreshed := session.State{
		AccessToken:  tokenResp.AccessToken,
		IDToken:      tokenResp.IDToken,
		RefreshToken: tokenResp.RefreshToken,
		IsAuthorized: true,
	}
	if tokenResp.ExpiresIn > 0 {
		refreshed.AccessTokenExpiry = m.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}

	// Providers may rotate or omit the refresh token; keep the old one when
	// none is returned.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = state.RefreshToken
	}
	// The provider may omit a new ID token on refresh.
	if refreshed.IDToken == "" {
		refreshed.IDToken = state.IDToken
	}

	logging.Debug("TokenManager", "Token refreshed (expires_in=%d)", tokenResp.ExpiresIn)
	return refreshed, nil
}
