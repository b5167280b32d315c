package authflow

import (
	"fmt"

	"golang.org/x/oauth2"

	"authgate/internal/config"
	"authgate/internal/provider"
)

// FlowOptions express the caller's intent for an authorization flow
// attempt.
type FlowOptions struct {
	// SignUp starts the flow on the provider's registration page instead of
	// the login page.
	SignUp bool

	// CreateOrg asks the provider to create a new organization during
	// registration.
	CreateOrg bool

	// OrgCode selects an existing organization to sign in to.
	OrgCode string

	// OrgName names the organization to create when CreateOrg is set.
	OrgName string

	// LoginHint pre-fills the provider's identifier field.
	LoginHint string

	// PlanInterest and PricingTableKey carry billing intent through
	// registration.
	PlanInterest    string
	PricingTableKey string

	// Audience overrides the configured API audience for this flow.
	Audience string

	// EnableNonce opts into ID-token replay binding. Off by default.
	EnableNonce bool

	// DisablePKCE turns off PKCE. PKCE is on by default and should stay on
	// for public clients.
	DisablePKCE bool
}

// Request is a fully built authorization request for one flow attempt. It is
// ephemeral: destroyed after the flow resolves and never persisted.
type Request struct {
	// State is the anti-CSRF token for the whole flow.
	State string

	// Nonce is the optional ID-token replay binding, empty unless the
	// caller opted in.
	Nonce string

	// PKCE is the verifier/challenge pair, nil when PKCE is disabled.
	PKCE *PKCEChallenge

	// AuthURL is the authorization URL to present to the user.
	AuthURL string

	oauthConfig oauth2.Config
}

// BuildRequest deterministically builds an authorization request from flow
// intent, discovered provider metadata, and validated configuration.
//
// Optional string parameters are included only when non-empty: omission, not
// empty-string transmission, is the contract for "not requested". Every
// request forces prompt=login so a stale provider session is never silently
// reused.
func BuildRequest(opts FlowOptions, metadata *provider.Metadata, cfg config.Config) (*Request, error) {
	if metadata == nil || metadata.AuthorizationEndpoint == "" {
		return nil, fmt.Errorf("%w: provider metadata has no authorization endpoint", ErrConfiguration)
	}

	redirectURL, ok := cfg.GetRedirectURL()
	if !ok {
		return nil, fmt.Errorf("%w: redirect URL is missing or malformed", ErrConfiguration)
	}

	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	req := &Request{
		State: state,
		oauthConfig: oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: redirectURL.String(),
			Scopes:      cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  metadata.AuthorizationEndpoint,
				TokenURL: metadata.TokenEndpoint,
			},
		},
	}

	startPage := "login"
	if opts.SignUp {
		startPage = "registration"
	}

	authOpts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("prompt", "login"),
		oauth2.SetAuthURLParam("start_page", startPage),
	}

	if opts.CreateOrg {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("is_create_org", "true"))
	}

	audience := cfg.Audience
	if opts.Audience != "" {
		audience = opts.Audience
	}

	for _, param := range []struct{ name, value string }{
		{"audience", audience},
		{"org_code", opts.OrgCode},
		{"org_name", opts.OrgName},
		{"login_hint", opts.LoginHint},
		{"plan_interest", opts.PlanInterest},
		{"pricing_table_key", opts.PricingTableKey},
	} {
		if param.value != "" {
			authOpts = append(authOpts, oauth2.SetAuthURLParam(param.name, param.value))
		}
	}

	if !opts.DisablePKCE {
		pkce, err := GeneratePKCE()
		if err != nil {
			return nil, err
		}
		req.PKCE = pkce
		authOpts = append(authOpts,
			oauth2.SetAuthURLParam("code_challenge", pkce.CodeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", pkce.CodeChallengeMethod),
		)
	}

	if opts.EnableNonce {
		nonce, err := GenerateNonce()
		if err != nil {
			return nil, err
		}
		req.Nonce = nonce
		authOpts = append(authOpts, oauth2.SetAuthURLParam("nonce", nonce))
	}

	req.AuthURL = req.oauthConfig.AuthCodeURL(state, authOpts...)
	return req, nil
}
