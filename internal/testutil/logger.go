package testutil

import "log/slog"

// DiscardLogger returns a slog.Logger that discards all output. Most code
// should prefer log.NewNop(), which returns the same type; this exists for
// tests that take a *slog.Logger without importing internal/log.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
