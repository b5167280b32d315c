package claims

import (
	"errors"
	"fmt"
)

// featureFlagsClaim is the access token claim carrying feature flags.
// Its expected shape is {code: {"t": "s"|"i"|"b", "v": value}}.
const featureFlagsClaim = "feature_flags"

// FlagType is the declared type of a feature flag.
type FlagType string

const (
	FlagTypeString  FlagType = "s"
	FlagTypeInteger FlagType = "i"
	FlagTypeBoolean FlagType = "b"
)

// String makes FlagType satisfy the fmt.Stringer interface.
func (t FlagType) String() string {
	switch t {
	case FlagTypeString:
		return "string"
	case FlagTypeInteger:
		return "integer"
	case FlagTypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

var (
	// ErrFlagNotFound indicates the flag code is absent and no default was
	// supplied.
	ErrFlagNotFound = errors.New("flag not found")

	// ErrFlagIncorrectType indicates the caller requested a type that does
	// not match the flag's declared type.
	ErrFlagIncorrectType = errors.New("flag has incorrect type")

	// ErrFlagUnknown indicates the feature_flags claim itself is absent or
	// unusable. This is distinct from one flag code being absent: it means
	// no flags are configured at all.
	ErrFlagUnknown = errors.New("feature flags claim unavailable")
)

// Flag is a feature flag resolved from the feature_flags claim. Type is nil
// when the flag came from a caller-supplied default rather than the claim.
type Flag struct {
	Code      string
	Type      *FlagType
	Value     Value
	IsDefault bool
}

// GetFlag resolves a feature flag from the access token's feature_flags
// claim. If expectedType is non-nil and mismatches the flag's declared type
// the lookup fails with ErrFlagIncorrectType rather than coercing. An absent
// code succeeds only when defaultValue is non-nil (the result is marked
// IsDefault with no declared type); otherwise it fails with ErrFlagNotFound.
func (r *Resolver) GetFlag(code string, defaultValue interface{}, expectedType *FlagType) (*Flag, error) {
	mapClaims, ok := r.rawClaims(TokenKindAccess)
	if !ok {
		return nil, ErrFlagUnknown
	}

	rawFlags, ok := mapClaims[featureFlagsClaim].(map[string]interface{})
	if !ok {
		return nil, ErrFlagUnknown
	}

	rawEntry, ok := rawFlags[code]
	if !ok {
		if defaultValue != nil {
			return &Flag{
				Code:      code,
				Value:     FromJSON(defaultValue),
				IsDefault: true,
			}, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrFlagNotFound, code)
	}

	entry, ok := rawEntry.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: flag %q has unexpected shape", ErrFlagUnknown, code)
	}

	declaredRaw, _ := entry["t"].(string)
	declared := FlagType(declaredRaw)

	if expectedType != nil && *expectedType != declared {
		return nil, fmt.Errorf("%w: flag %q is a %s, requested %s",
			ErrFlagIncorrectType, code, declared, *expectedType)
	}

	return &Flag{
		Code:  code,
		Type:  &declared,
		Value: FromJSON(entry["v"]),
	}, nil
}

// GetBooleanFlag resolves a boolean feature flag. A nil defaultValue means
// no fallback: an absent flag fails with ErrFlagNotFound.
func (r *Resolver) GetBooleanFlag(code string, defaultValue *bool) (bool, error) {
	expected := FlagTypeBoolean
	flag, err := r.GetFlag(code, optionalDefault(defaultValue), &expected)
	if err != nil {
		return false, err
	}

	if v, ok := flag.Value.AsBool(); ok {
		return v, nil
	}
	if defaultValue != nil {
		return *defaultValue, nil
	}
	return false, fmt.Errorf("%w: %q has no boolean value", ErrFlagNotFound, code)
}

// GetStringFlag resolves a string feature flag.
func (r *Resolver) GetStringFlag(code string, defaultValue *string) (string, error) {
	expected := FlagTypeString
	flag, err := r.GetFlag(code, optionalDefault(defaultValue), &expected)
	if err != nil {
		return "", err
	}

	if v, ok := flag.Value.AsString(); ok {
		return v, nil
	}
	if defaultValue != nil {
		return *defaultValue, nil
	}
	return "", fmt.Errorf("%w: %q has no string value", ErrFlagNotFound, code)
}

// GetIntegerFlag resolves an integer feature flag.
func (r *Resolver) GetIntegerFlag(code string, defaultValue *int) (int, error) {
	expected := FlagTypeInteger
	flag, err := r.GetFlag(code, optionalDefault(defaultValue), &expected)
	if err != nil {
		return 0, err
	}

	if v, ok := flag.Value.AsInt(); ok {
		return int(v), nil
	}
	if defaultValue != nil {
		return *defaultValue, nil
	}
	return 0, fmt.Errorf("%w: %q has no integer value", ErrFlagNotFound, code)
}

// optionalDefault converts a typed optional default into the interface form
// GetFlag expects, preserving nil-ness.
func optionalDefault[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
