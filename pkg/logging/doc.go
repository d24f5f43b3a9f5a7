// Package logging provides structured logging for the xero CLI.
//
// It is a thin wrapper around Go's standard slog package. Every entry
// carries a subsystem identifier so output from the OAuth flow, the
// credential store and the API client can be told apart when debugging.
//
// Initialize once at startup:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
// Then log with a subsystem tag:
//
//	logging.Debug("OAuth", "token exchange succeeded (expires_in=%d)", expiresIn)
//	logging.Error("API", err, "request to %s failed", path)
//
// Token and secret values must never be passed to this package.
package logging
