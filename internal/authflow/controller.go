package authflow

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"authgate/internal/claims"
	"authgate/internal/config"
	"authgate/internal/provider"
	"authgate/internal/session"
	"authgate/pkg/logging"
)

// FlowStatus is the controller's position in the flow state machine.
type FlowStatus int

const (
	// StatusIdle means no flow has been started or the last one resolved.
	StatusIdle FlowStatus = iota

	// StatusAwaitingCallback means an interactive flow is outstanding.
	StatusAwaitingCallback

	// StatusSucceeded means the last flow completed and the repository
	// reflects its outcome.
	StatusSucceeded

	// StatusCancelled means the user backed out at the provider.
	StatusCancelled

	// StatusFailed means the last flow ended in an error and the repository
	// was cleared.
	StatusFailed
)

// String makes FlowStatus satisfy the fmt.Stringer interface.
func (s FlowStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAwaitingCallback:
		return "awaiting_callback"
	case StatusSucceeded:
		return "succeeded"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Flow is the single in-flight interactive flow handle. At most one exists
// at any time; it is set when a flow launches and cleared on the terminal
// callback.
type Flow struct {
	// ID identifies this flow attempt in logs.
	ID string

	// Request is the authorization request driving the flow.
	Request *Request

	// StartedAt is when the flow was launched.
	StartedAt time.Time

	callback *CallbackServer
}

// RedirectURI returns the loopback URI the flow's callback server answers
// on. With an ephemeral port this differs from the configured redirect URL.
func (f *Flow) RedirectURI() string {
	return f.callback.RedirectURI()
}

// Controller owns the interactive authorization flow. It enforces the
// single-outstanding-flow invariant and maps the terminal callback into a
// credential repository mutation.
type Controller struct {
	mu         sync.Mutex
	cfg        config.Config
	repo       *session.Repository
	discoverer provider.Discoverer
	presenter  Presenter
	httpClient *http.Client
	status     FlowStatus
	inflight   *Flow
}

// NewController creates a flow controller. A nil presenter uses the default
// browser; a nil httpClient uses a default client with a 30-second timeout.
func NewController(cfg config.Config, repo *session.Repository, discoverer provider.Discoverer, presenter Presenter, httpClient *http.Client) *Controller {
	if presenter == nil {
		presenter = BrowserPresenter{}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Controller{
		cfg:        cfg,
		repo:       repo,
		discoverer: discoverer,
		presenter:  presenter,
		httpClient: httpClient,
		status:     StatusIdle,
	}
}

// Status returns the controller's current flow status.
func (c *Controller) Status() FlowStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start launches an interactive authorization flow: discovers the provider,
// builds the request, starts the loopback callback server, and hands the
// authorization URL to the presentation collaborator.
//
// Start fails with ErrFlowInProgress, without any state transition, if a
// flow is already awaiting its callback.
func (c *Controller) Start(ctx context.Context, opts FlowOptions) (*Flow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != nil {
		return nil, ErrFlowInProgress
	}

	metadata, err := c.discoverer.Discover(ctx, c.cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: discovery failed: %w", ErrConfiguration, err)
	}

	request, err := BuildRequest(opts, metadata, c.cfg)
	if err != nil {
		return nil, err
	}

	callback := NewCallbackServer(c.callbackPort(), c.callbackPath())
	if _, err := callback.Start(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}

	flow := &Flow{
		ID:        uuid.NewString(),
		Request:   request,
		StartedAt: time.Now(),
		callback:  callback,
	}

	if err := c.presenter.Present(ctx, request.AuthURL, c.cfg.UsePrivateSession); err != nil {
		callback.Stop()
		c.status = StatusFailed
		return nil, fmt.Errorf("%w: presentation surface unavailable: %w", ErrNotAuthenticated, err)
	}

	c.inflight = flow
	c.status = StatusAwaitingCallback

	logging.Debug("AuthFlow", "Authorization flow %s started (issuer=%s, sign_up=%t, create_org=%t)",
		flow.ID, c.cfg.IssuerURL, opts.SignUp, opts.CreateOrg)

	return flow, nil
}

// Wait blocks until the provider's terminal callback resolves the in-flight
// flow, then folds the result into the credential repository.
//
// All terminal paths clear the in-flight handle. Failure paths also clear
// the repository so a failed attempt never leaves stale trusted state
// behind. On success, a still-valid session for the same user is preserved
// rather than overwritten.
func (c *Controller) Wait(ctx context.Context) (session.State, error) {
	c.mu.Lock()
	flow := c.inflight
	c.mu.Unlock()

	if flow == nil {
		return session.State{}, fmt.Errorf("%w: no authorization flow in progress", ErrNotAuthenticated)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, CallbackTimeout)
	defer cancel()

	result, err := flow.callback.WaitForCallback(timeoutCtx)
	if err != nil {
		return session.State{}, c.finishFailure(flow, StatusFailed,
			fmt.Errorf("%w: callback failed: %w", ErrNotAuthenticated, err))
	}

	if result.State != flow.Request.State {
		logging.Warn("AuthFlow", "State mismatch on flow %s: possible CSRF attempt", flow.ID)
		return session.State{}, c.finishFailure(flow, StatusFailed,
			fmt.Errorf("%w: state mismatch", ErrNotAuthenticated))
	}

	if result.IsError() {
		if result.Error == cancelledErrorCode {
			logging.Info("AuthFlow", "Authorization flow %s cancelled by user", flow.ID)
			return session.State{}, c.finishFailure(flow, StatusCancelled, ErrFlowCancelled)
		}
		return session.State{}, c.finishFailure(flow, StatusFailed,
			fmt.Errorf("%w: provider returned %s: %s", ErrNotAuthenticated, result.Error, result.ErrorDescription))
	}

	if result.Code == "" {
		return session.State{}, c.finishFailure(flow, StatusFailed,
			fmt.Errorf("%w: provider returned neither code nor error", ErrNotAuthenticated))
	}

	newState, err := c.exchangeCode(ctx, flow, result.Code)
	if err != nil {
		return session.State{}, c.finishFailure(flow, StatusFailed,
			fmt.Errorf("%w: token exchange failed: %w", ErrNotAuthenticated, err))
	}

	return c.finishSuccess(flow, newState)
}

// finishFailure clears the repository and the in-flight handle, records the
// terminal status, and returns the error for the caller to surface.
func (c *Controller) finishFailure(flow *Flow, status FlowStatus, err error) error {
	flow.callback.Stop()

	if clearErr := c.repo.Clear(); clearErr != nil {
		logging.Warn("AuthFlow", "Failed to clear credential state after flow failure: %v", clearErr)
	}

	c.mu.Lock()
	c.inflight = nil
	c.status = status
	c.mu.Unlock()

	return err
}

// finishSuccess decides between preserving the current session and
// replacing it, persists the outcome, and only then clears the in-flight
// handle and transitions to Succeeded.
func (c *Controller) finishSuccess(flow *Flow, newState session.State) (session.State, error) {
	flow.callback.Stop()

	final := newState
	if current, ok := c.repo.Current(); ok && c.sameUserSessionStillValid(current, newState) {
		// A redundant re-login for the same user must not discard a
		// still-good session.
		logging.Debug("AuthFlow", "Existing valid session for the same user preserved on flow %s", flow.ID)
		final = current
	} else if err := c.repo.Replace(newState); err != nil {
		// The in-memory session holds the new state (cache wins); only the
		// durable write failed.
		c.mu.Lock()
		c.inflight = nil
		c.status = StatusFailed
		c.mu.Unlock()
		return newState, fmt.Errorf("%w: %w", ErrFailedToSaveState, err)
	}

	c.mu.Lock()
	c.inflight = nil
	c.status = StatusSucceeded
	c.mu.Unlock()

	logging.Info("AuthFlow", "Authorization flow %s succeeded", flow.ID)
	return final, nil
}

// sameUserSessionStillValid reports whether the current session is valid
// (authorized, non-expired) and belongs to the same user as the new flow
// result, compared by the ID token email claim.
func (c *Controller) sameUserSessionStillValid(current, incoming session.State) bool {
	if !current.IsAuthorized || !current.HasAccessToken() || current.IsAccessTokenExpired(time.Now()) {
		return false
	}

	currentEmail, ok := claims.TokenEmail(current.IDToken)
	if !ok {
		return false
	}
	incomingEmail, ok := claims.TokenEmail(incoming.IDToken)
	if !ok {
		return false
	}

	return currentEmail == incomingEmail
}

// exchangeCode redeems the authorization code for tokens, binding the
// exchange to this flow's PKCE verifier.
func (c *Controller) exchangeCode(ctx context.Context, flow *Flow, code string) (session.State, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	var exchangeOpts []oauth2.AuthCodeOption
	if flow.Request.PKCE != nil {
		exchangeOpts = append(exchangeOpts, oauth2.VerifierOption(flow.Request.PKCE.CodeVerifier))
	}

	token, err := flow.Request.oauthConfig.Exchange(ctx, code, exchangeOpts...)
	if err != nil {
		return session.State{}, err
	}

	state := session.State{
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
		AccessTokenExpiry: token.Expiry,
		IsAuthorized:      true,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		state.IDToken = idToken
	}

	return state, nil
}

// callbackPort reads the loopback port from the validated redirect URL.
func (c *Controller) callbackPort() int {
	redirectURL, ok := c.cfg.GetRedirectURL()
	if !ok {
		return DefaultCallbackPort
	}
	if portStr := redirectURL.Port(); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			return port
		}
	}
	return DefaultCallbackPort
}

// callbackPath reads the callback path from the validated redirect URL.
func (c *Controller) callbackPath() string {
	redirectURL, ok := c.cfg.GetRedirectURL()
	if !ok || redirectURL.Path == "" {
		return "/callback"
	}
	return redirectURL.Path
}
