package claims

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authgate/internal/session"
)

// TokenKind selects which token's claim set a lookup reads.
type TokenKind int

const (
	// TokenKindAccess reads claims from the access token.
	TokenKindAccess TokenKind = iota
	// TokenKindID reads claims from the ID token.
	TokenKindID
)

// Claim is a single named value from a token payload. Claims are derived
// fresh from the current credential on every lookup, never cached, so they
// always reflect the latest refresh.
type Claim struct {
	Name  string
	Value Value
}

// Permission is the result of a single permission check.
type Permission struct {
	// OrgCode is the organization the permission was evaluated against.
	OrgCode string
	// IsGranted reports whether the permission is present.
	IsGranted bool
}

// Resolver derives typed authorization facts from the cached credential's
// token payloads.
type Resolver struct {
	repo *session.Repository
	now  func() time.Time
}

// NewResolver creates a resolver over the credential repository.
func NewResolver(repo *session.Repository) *Resolver {
	return &Resolver{repo: repo, now: time.Now}
}

// IsAuthorized reports the last known authorized flag, independent of token
// expiry.
func (r *Resolver) IsAuthorized() bool {
	state, ok := r.repo.Current()
	return ok && state.IsAuthorized
}

// IsAuthenticated reports whether the session is authorized and holds an
// access token whose expiry is strictly in the future. This is a
// point-in-time check; it does not trigger a refresh.
func (r *Resolver) IsAuthenticated() bool {
	state, ok := r.repo.Current()
	if !ok || !state.IsAuthorized || !state.HasAccessToken() {
		return false
	}
	return !state.IsAccessTokenExpired(r.now())
}

// GetClaim returns the named claim from the chosen token's payload. Claims
// with null values are treated as absent.
func (r *Resolver) GetClaim(name string, kind TokenKind) (*Claim, bool) {
	mapClaims, ok := r.rawClaims(kind)
	if !ok {
		return nil, false
	}

	raw, ok := mapClaims[name]
	if !ok || raw == nil {
		return nil, false
	}

	return &Claim{Name: name, Value: FromJSON(raw)}, true
}

// GetPermissions returns the permission names granted in the current
// organization context, along with the organization code. Absent or
// malformed claims yield absence, not an error.
func (r *Resolver) GetPermissions() (orgCode string, permissions []string, ok bool) {
	orgCode, _ = r.GetOrganization()

	claim, found := r.GetClaim("permissions", TokenKindAccess)
	if !found {
		return orgCode, nil, false
	}

	items, isArray := claim.Value.AsArray()
	if !isArray {
		return orgCode, nil, false
	}

	permissions = make([]string, 0, len(items))
	for _, item := range items {
		if s, isString := item.AsString(); isString {
			permissions = append(permissions, s)
		}
	}
	return orgCode, permissions, true
}

// GetPermission reports the grant status of a single permission. If the
// permissions claim is unavailable the permission is reported as not
// granted.
func (r *Resolver) GetPermission(name string) Permission {
	orgCode, permissions, ok := r.GetPermissions()
	result := Permission{OrgCode: orgCode}
	if !ok {
		return result
	}

	for _, p := range permissions {
		if p == name {
			result.IsGranted = true
			break
		}
	}
	return result
}

// GetOrganization returns the organization code of the current session.
func (r *Resolver) GetOrganization() (string, bool) {
	claim, found := r.GetClaim("org_code", TokenKindAccess)
	if !found {
		return "", false
	}
	return claim.Value.AsString()
}

// GetUserOrganizations returns all organization codes the user belongs to,
// read from the ID token.
func (r *Resolver) GetUserOrganizations() ([]string, bool) {
	claim, found := r.GetClaim("org_codes", TokenKindID)
	if !found {
		return nil, false
	}

	items, isArray := claim.Value.AsArray()
	if !isArray {
		return nil, false
	}

	codes := make([]string, 0, len(items))
	for _, item := range items {
		if s, isString := item.AsString(); isString {
			codes = append(codes, s)
		}
	}
	return codes, true
}

// rawClaims parses the chosen token's payload fresh for this lookup.
func (r *Resolver) rawClaims(kind TokenKind) (jwt.MapClaims, bool) {
	state, ok := r.repo.Current()
	if !ok {
		return nil, false
	}

	var raw string
	switch kind {
	case TokenKindID:
		raw = state.IDToken
	default:
		raw = state.AccessToken
	}

	return decodeClaims(raw)
}
