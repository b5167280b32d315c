package claims

import (
	"encoding/json"
	"strconv"
)

// entitlementsClaim is the access token claim carrying entitlements.
const entitlementsClaim = "entitlements"

// FeatureFlags returns the raw feature_flags claim as a dictionary. The
// claim may be encoded as a literal JSON string or as a structured mapping;
// both forms are accepted. An unparsable or absent claim yields an empty
// map, never an error: claim-derived feature surfaces favor availability
// over strictness.
func (r *Resolver) FeatureFlags() map[string]Value {
	return r.claimDictionary(featureFlagsClaim)
}

// Entitlements returns the raw entitlements claim as a dictionary, with the
// same leniency as FeatureFlags.
func (r *Resolver) Entitlements() map[string]Value {
	return r.claimDictionary(entitlementsClaim)
}

func (r *Resolver) claimDictionary(name string) map[string]Value {
	mapClaims, ok := r.rawClaims(TokenKindAccess)
	if !ok {
		return map[string]Value{}
	}

	raw, ok := mapClaims[name]
	if !ok || raw == nil {
		return map[string]Value{}
	}

	// String-encoded JSON first, then direct mapping interpretation.
	if encoded, isString := raw.(string); isString {
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(encoded), &decoded); err == nil {
			raw = decoded
		}
	}

	if dict, isMap := FromJSON(raw).AsMap(); isMap {
		return dict
	}
	return map[string]Value{}
}

// GetBooleanEntitlement is a hard-check lookup: it returns the entitlement
// value converted to a boolean, tolerating stringly-typed values ("true"),
// and falls back to the supplied default when the key is absent or the value
// does not convert.
func (r *Resolver) GetBooleanEntitlement(key string, fallback bool) bool {
	value, ok := r.Entitlements()[key]
	if !ok {
		return fallback
	}

	if b, isBool := value.AsBool(); isBool {
		return b
	}
	if s, isString := value.AsString(); isString {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return fallback
}

// GetIntegerEntitlement is the integer hard-check lookup, tolerating values
// like "123".
func (r *Resolver) GetIntegerEntitlement(key string, fallback int) int {
	value, ok := r.Entitlements()[key]
	if !ok {
		return fallback
	}

	if n, isInt := value.AsInt(); isInt {
		return int(n)
	}
	if s, isString := value.AsString(); isString {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetStringEntitlement is the string hard-check lookup.
func (r *Resolver) GetStringEntitlement(key string, fallback string) string {
	value, ok := r.Entitlements()[key]
	if !ok {
		return fallback
	}

	if s, isString := value.AsString(); isString {
		return s
	}
	return fallback
}
