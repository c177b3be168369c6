package testutil

import (
	"log/slog"
)

// NopLogger returns a logger that drops every record without formatting it
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
