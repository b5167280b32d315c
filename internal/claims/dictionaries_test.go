package claims

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlagsDictionary(t *testing.T) {
	resolver := flagResolver(t)

	flags := resolver.FeatureFlags()
	require.Len(t, flags, 3)

	entry, ok := flags["dark_mode"].AsMap()
	require.True(t, ok)
	v, ok := entry["v"].AsBool()
	require.True(t, ok)
	assert.True(t, v)
}

func TestFeatureFlagsAbsentClaimYieldsEmptyMap(t *testing.T) {
	resolver := resolverWith(t, jwt.MapClaims{"sub": "user-1"}, nil)
	assert.Empty(t, resolver.FeatureFlags())

	assert.Empty(t, emptyResolver().FeatureFlags())
}

func TestEntitlementsStructuredClaim(t *testing.T) {
	resolver := resolverWith(t, jwt.MapClaims{
		"entitlements": map[string]interface{}{
			"seats":     10,
			"plan":      "pro",
			"analytics": true,
		},
	}, nil)

	entitlements := resolver.Entitlements()
	require.Len(t, entitlements, 3)

	assert.Equal(t, 10, resolver.GetIntegerEntitlement("seats", 0))
	assert.Equal(t, "pro", resolver.GetStringEntitlement("plan", ""))
	assert.True(t, resolver.GetBooleanEntitlement("analytics", false))
}

func TestEntitlementsStringEncodedClaim(t *testing.T) {
	// Some issuers serialize the dictionary as a JSON string.
	resolver := resolverWith(t, jwt.MapClaims{
		"entitlements": `{"seats": 10, "plan": "pro"}`,
	}, nil)

	assert.Equal(t, 10, resolver.GetIntegerEntitlement("seats", 0))
	assert.Equal(t, "pro", resolver.GetStringEntitlement("plan", ""))
}

func TestEntitlementsUnparsableClaimYieldsEmptyMap(t *testing.T) {
	resolver := resolverWith(t, jwt.MapClaims{
		"entitlements": "not json",
	}, nil)

	assert.Empty(t, resolver.Entitlements())
	assert.Equal(t, 5, resolver.GetIntegerEntitlement("seats", 5))
}

func TestEntitlementLookupsTolerateStringValues(t *testing.T) {
	resolver := resolverWith(t, jwt.MapClaims{
		"entitlements": map[string]interface{}{
			"seats":     "10",
			"analytics": "true",
		},
	}, nil)

	assert.Equal(t, 10, resolver.GetIntegerEntitlement("seats", 0))
	assert.True(t, resolver.GetBooleanEntitlement("analytics", false))
}

func TestEntitlementLookupsFallBack(t *testing.T) {
	resolver := resolverWith(t, jwt.MapClaims{
		"entitlements": map[string]interface{}{
			"plan": "pro",
		},
	}, nil)

	// Absent keys and inconvertible values use the supplied fallback.
	assert.Equal(t, 3, resolver.GetIntegerEntitlement("seats", 3))
	assert.False(t, resolver.GetBooleanEntitlement("analytics", false))
	assert.Equal(t, "free", resolver.GetStringEntitlement("tier", "free"))
	assert.Equal(t, 0, resolver.GetIntegerEntitlement("plan", 0))
}
