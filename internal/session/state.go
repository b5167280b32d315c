package session

import "time"

// State is the credential state for the single user session this process
// manages. It is replaced wholesale on a successful authorization or refresh
// and cleared entirely on logout or a failed flow.
//
// IsAuthorized records that at least one authorization round-trip succeeded.
// It does not imply the access token is currently unexpired; use
// IsAccessTokenExpired for the point-in-time check.
type State struct {
	// AccessToken is the OAuth access token.
	AccessToken string `json:"access_token,omitempty"`

	// IDToken is the OIDC ID token.
	IDToken string `json:"id_token,omitempty"`

	// RefreshToken is the OAuth refresh token, if the provider issued one.
	RefreshToken string `json:"refresh_token,omitempty"`

	// AccessTokenExpiry is when the access token expires. Zero means the
	// provider supplied no expiry.
	AccessTokenExpiry time.Time `json:"access_token_expiry,omitempty"`

	// IsAuthorized is true after a successful authorization round-trip.
	IsAuthorized bool `json:"is_authorized"`
}

// HasAccessToken reports whether an access token is present.
func (s State) HasAccessToken() bool {
	return s.AccessToken != ""
}

// HasRefreshToken reports whether a refresh token is present.
func (s State) HasRefreshToken() bool {
	return s.RefreshToken != ""
}

// IsAccessTokenExpired reports whether the access token has expired as of
// now. A zero expiry is treated as expired so callers always refresh tokens
// whose lifetime is unknown.
func (s State) IsAccessTokenExpired(now time.Time) bool {
	if s.AccessTokenExpiry.IsZero() {
		return true
	}
	return !now.Before(s.AccessTokenExpiry)
}

// Equal reports whether two states match in all observable fields.
func (s State) Equal(other State) bool {
	return s.AccessToken == other.AccessToken &&
		s.IDToken == other.IDToken &&
		s.RefreshToken == other.RefreshToken &&
		s.AccessTokenExpiry.Equal(other.AccessTokenExpiry) &&
		s.IsAuthorized == other.IsAuthorized
}
