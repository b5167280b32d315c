package entitlements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"authgate/internal/token"
	"authgate/pkg/logging"
)

const (
	listPath = "/account_api/v1/entitlements"
	getPath  = "/account_api/v1/entitlement"
)

var (
	// ErrInvalidURL indicates the configured API base URL is unusable.
	ErrInvalidURL = errors.New("invalid entitlements API URL")

	// ErrInvalidResponse indicates the server response could not be read.
	ErrInvalidResponse = errors.New("invalid entitlements API response")

	// ErrDecoding indicates the response body was not the expected shape.
	ErrDecoding = errors.New("failed to decode entitlements API response")
)

// ServerError is a non-200 application-level response from the API.
type ServerError struct {
	Status int
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("entitlements API returned status %d", e.Status)
}

// Client fetches server-side entitlement records using a lifecycle-managed
// token. Results are accumulated per call, never cached.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *token.Manager
}

// NewClient creates an entitlements client against the given API base URL
// (normally the issuer URL). A nil httpClient uses a default client with a
// 30-second timeout.
func NewClient(baseURL string, tokens *token.Manager, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// FetchPage fetches one page of entitlements. pageSize <= 0 and an empty
// startingAfter cursor leave the server defaults in place.
func (c *Client) FetchPage(ctx context.Context, pageSize int, startingAfter string) (*Page, error) {
	endpoint, err := c.endpoint(listPath)
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	if startingAfter != "" {
		query.Set("starting_after", startingAfter)
	}
	endpoint.RawQuery = query.Encode()

	var decoded listResponse
	if err := c.get(ctx, endpoint.String(), &decoded); err != nil {
		return nil, err
	}

	return &Page{
		OrgCode:               decoded.Data.OrgCode,
		Plans:                 decoded.Data.Plans,
		Entitlements:          decoded.Data.Entitlements,
		HasMore:               decoded.Metadata.HasMore,
		NextPageStartingAfter: decoded.Metadata.NextPageStartingAfter,
	}, nil
}

// FetchAll pages through the full entitlements listing, accumulating
// records in arrival order. A failure on any page aborts the aggregation;
// no partial result is returned.
func (c *Client) FetchAll(ctx context.Context) ([]Entitlement, error) {
	var all []Entitlement
	cursor := ""

	for {
		page, err := c.FetchPage(ctx, 0, cursor)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Entitlements...)

		if !page.HasMore || page.NextPageStartingAfter == "" {
			break
		}
		cursor = page.NextPageStartingAfter
	}

	logging.Debug("Entitlements", "Fetched %d entitlements", len(all))
	return all, nil
}

// FetchEntitlement fetches a single entitlement record by feature key.
func (c *Client) FetchEntitlement(ctx context.Context, key string) (*Entitlement, error) {
	endpoint, err := c.endpoint(getPath)
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("key", key)
	endpoint.RawQuery = query.Encode()

	var decoded getResponse
	if err := c.get(ctx, endpoint.String(), &decoded); err != nil {
		return nil, err
	}

	return &decoded.Data.Entitlement, nil
}

// get issues an authenticated read and decodes the body into out.
func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	accessToken, err := c.tokens.GetToken(ctx, token.KindAccess)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ServerError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	return nil
}

func (c *Client) endpoint(path string) (*url.URL, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, c.baseURL)
	}
	return base.JoinPath(path), nil
}
