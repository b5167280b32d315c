package authflow

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/config"
	"authgate/internal/provider"
)

func testConfig() config.Config {
	return config.Config{
		IssuerURL:   "https://auth.example.com",
		ClientID:    "client-123",
		RedirectURL: "http://localhost:3000/callback",
		Scopes:      []string{"openid", "profile", "email", "offline"},
	}
}

func testMetadata() *provider.Metadata {
	return &provider.Metadata{
		Issuer:                "https://auth.example.com",
		AuthorizationEndpoint: "https://auth.example.com/oauth2/auth",
		TokenEndpoint:         "https://auth.example.com/oauth2/token",
	}
}

func parseAuthURL(t *testing.T, rawURL string) url.Values {
	t.Helper()
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	return parsed.Query()
}

func TestBuildRequest_Defaults(t *testing.T) {
	req, err := BuildRequest(FlowOptions{}, testMetadata(), testConfig())
	require.NoError(t, err)

	query := parseAuthURL(t, req.AuthURL)

	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "client-123", query.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/callback", query.Get("redirect_uri"))
	assert.Equal(t, "login", query.Get("prompt"))
	assert.Equal(t, "login", query.Get("start_page"))
	assert.Equal(t, req.State, query.Get("state"))
	assert.NotEmpty(t, req.State)

	// PKCE is on by default.
	require.NotNil(t, req.PKCE)
	assert.Equal(t, req.PKCE.CodeChallenge, query.Get("code_challenge"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))

	// Nonce is opt-in and off by default.
	assert.Empty(t, req.Nonce)
	assert.False(t, query.Has("nonce"))

	// Optional parameters are omitted, not sent empty.
	for _, param := range []string{"audience", "org_code", "org_name", "login_hint", "plan_interest", "pricing_table_key", "is_create_org"} {
		assert.False(t, query.Has(param), "unexpected parameter %q in auth URL", param)
	}
}

func TestBuildRequest_FlowIntent(t *testing.T) {
	tests := []struct {
		name       string
		opts       FlowOptions
		wantParams map[string]string
		absent     []string
	}{
		{
			name: "sign up starts on registration page",
			opts: FlowOptions{SignUp: true},
			wantParams: map[string]string{
				"start_page": "registration",
				"prompt":     "login",
			},
		},
		{
			name: "create org",
			opts: FlowOptions{SignUp: true, CreateOrg: true, OrgName: "Acme"},
			wantParams: map[string]string{
				"is_create_org": "true",
				"org_name":      "Acme",
			},
		},
		{
			name: "org code and login hint",
			opts: FlowOptions{OrgCode: "org_1234", LoginHint: "user@example.com"},
			wantParams: map[string]string{
				"org_code":   "org_1234",
				"login_hint": "user@example.com",
			},
			absent: []string{"is_create_org", "org_name"},
		},
		{
			name: "billing intent",
			opts: FlowOptions{PlanInterest: "pro", PricingTableKey: "table-1"},
			wantParams: map[string]string{
				"plan_interest":     "pro",
				"pricing_table_key": "table-1",
			},
		},
		{
			name: "audience override",
			opts: FlowOptions{Audience: "https://api.example.com"},
			wantParams: map[string]string{
				"audience": "https://api.example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.opts, testMetadata(), testConfig())
			require.NoError(t, err)

			query := parseAuthURL(t, req.AuthURL)
			for name, want := range tt.wantParams {
				assert.Equal(t, want, query.Get(name), "parameter %q", name)
			}
			for _, name := range tt.absent {
				assert.False(t, query.Has(name), "parameter %q should be absent", name)
			}
		})
	}
}

func TestBuildRequest_ConfiguredAudience(t *testing.T) {
	cfg := testConfig()
	cfg.Audience = "https://api.example.com"

	req, err := BuildRequest(FlowOptions{}, testMetadata(), cfg)
	require.NoError(t, err)

	query := parseAuthURL(t, req.AuthURL)
	assert.Equal(t, "https://api.example.com", query.Get("audience"))
}

func TestBuildRequest_NonceOptIn(t *testing.T) {
	req, err := BuildRequest(FlowOptions{EnableNonce: true}, testMetadata(), testConfig())
	require.NoError(t, err)

	require.NotEmpty(t, req.Nonce)
	query := parseAuthURL(t, req.AuthURL)
	assert.Equal(t, req.Nonce, query.Get("nonce"))
}

func TestBuildRequest_PKCEDisabled(t *testing.T) {
	req, err := BuildRequest(FlowOptions{DisablePKCE: true}, testMetadata(), testConfig())
	require.NoError(t, err)

	assert.Nil(t, req.PKCE)
	query := parseAuthURL(t, req.AuthURL)
	assert.False(t, query.Has("code_challenge"))
	assert.False(t, query.Has("code_challenge_method"))

	// The state parameter is generated regardless of the PKCE setting.
	assert.NotEmpty(t, req.State)
}

func TestBuildRequest_StateDistinctAcrossCalls(t *testing.T) {
	first, err := BuildRequest(FlowOptions{}, testMetadata(), testConfig())
	require.NoError(t, err)
	second, err := BuildRequest(FlowOptions{}, testMetadata(), testConfig())
	require.NoError(t, err)

	assert.NotEqual(t, first.State, second.State)
	assert.NotEqual(t, first.PKCE.CodeVerifier, second.PKCE.CodeVerifier)
}

func TestBuildRequest_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		metadata *provider.Metadata
		cfg      config.Config
	}{
		{
			name:     "nil metadata",
			metadata: nil,
			cfg:      testConfig(),
		},
		{
			name:     "no authorization endpoint",
			metadata: &provider.Metadata{TokenEndpoint: "https://auth.example.com/oauth2/token"},
			cfg:      testConfig(),
		},
		{
			name:     "missing redirect URL",
			metadata: testMetadata(),
			cfg: config.Config{
				IssuerURL: "https://auth.example.com",
				ClientID:  "client-123",
			},
		},
		{
			name:     "malformed redirect URL",
			metadata: testMetadata(),
			cfg: config.Config{
				IssuerURL:   "https://auth.example.com",
				ClientID:    "client-123",
				RedirectURL: "not a url",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRequest(FlowOptions{}, tt.metadata, tt.cfg)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
