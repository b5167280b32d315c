// Package config loads and validates the authgate client configuration.
//
// Configuration lives in a single YAML file, ~/.config/authgate/config.yaml
// by default, overridable with the --config flag. Values are validated once
// at startup; malformed issuer or redirect URLs are rejected before they
// reach the core, and the URL accessors report absence rather than erroring
// on parse failure.
package config
