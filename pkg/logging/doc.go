// Package logging provides the shared logging facade for authgate.
//
// It wraps log/slog with subsystem-tagged, printf-style helpers so callers
// can log without carrying a logger instance:
//
//	logging.Debug("AuthFlow", "authorization URL built for issuer=%s", issuer)
//
// Initialize must be called once at startup (the CLI does this in the root
// command) to set the minimum level and output writer. Before initialization
// all log calls are no-ops, which keeps library use of these packages quiet
// by default.
//
// SECURITY: token and credential values must never be passed to this package.
// Log only issuer URLs, subjects, and structural facts.
package logging
