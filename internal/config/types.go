package config

import "net/url"

// StorageBackend selects where credential state is durably persisted.
type StorageBackend string

const (
	// StorageKeyring stores credentials in the OS keyring (default).
	StorageKeyring StorageBackend = "keyring"
	// StorageFile stores credentials in 0600-permission files, for headless hosts.
	StorageFile StorageBackend = "file"
	// StorageMemory keeps credentials in memory only.
	StorageMemory StorageBackend = "memory"
)

// StorageConfig configures credential persistence.
type StorageConfig struct {
	// Backend selects the secret store implementation.
	Backend StorageBackend `yaml:"backend"`

	// FileDir is the directory for the file backend. Empty uses the default
	// under the user's home directory.
	FileDir string `yaml:"fileDir,omitempty"`
}

// Config holds the immutable authentication client configuration. It is
// loaded once at startup and validated before any core component sees it.
type Config struct {
	// IssuerURL is the OIDC issuer used for discovery.
	IssuerURL string `yaml:"issuerUrl"`

	// ClientID is the OAuth client identifier.
	ClientID string `yaml:"clientId"`

	// RedirectURL is the authorization callback URL. For the CLI this is a
	// loopback URL whose port the local callback server binds.
	RedirectURL string `yaml:"redirectUrl"`

	// PostLogoutRedirectURL is where the provider sends the browser after
	// an RP-initiated logout.
	PostLogoutRedirectURL string `yaml:"postLogoutRedirectUrl,omitempty"`

	// Scopes are the OAuth scopes requested during authorization.
	Scopes []string `yaml:"scopes,omitempty"`

	// Audience restricts issued access tokens to an API audience.
	Audience string `yaml:"audience,omitempty"`

	// UsePrivateSession suppresses persistent browser session reuse when the
	// flow is presented.
	UsePrivateSession bool `yaml:"usePrivateSession,omitempty"`

	// Storage configures credential persistence.
	Storage StorageConfig `yaml:"storage,omitempty"`
}

// GetIssuerURL returns the parsed issuer URL. The second return is false if
// the configured value is absent or malformed.
func (c Config) GetIssuerURL() (*url.URL, bool) {
	return parseAbsoluteURL(c.IssuerURL)
}

// GetRedirectURL returns the parsed redirect URL. The second return is false
// if the configured value is absent or malformed.
func (c Config) GetRedirectURL() (*url.URL, bool) {
	return parseAbsoluteURL(c.RedirectURL)
}

// GetPostLogoutRedirectURL returns the parsed post-logout redirect URL, if
// one is configured and well-formed.
func (c Config) GetPostLogoutRedirectURL() (*url.URL, bool) {
	return parseAbsoluteURL(c.PostLogoutRedirectURL)
}

func parseAbsoluteURL(raw string) (*url.URL, bool) {
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}
