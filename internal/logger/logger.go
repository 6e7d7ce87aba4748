// Package logger provides the structured slog logger for the service. All
// logs are written in JSON format, to stderr by default or to a file under
// the configured log directory.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// New creates a JSON slog.Logger writing to stderr.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// NewFileLogger creates a JSON slog.Logger that writes to
// <logDir>/billingmail.log. The directory is created if it does not exist.
func NewFileLogger(logDir string, level slog.Level) (*slog.Logger, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	path := filepath.Join(logDir, "billingmail.log")
	//nolint:gosec // path is constructed from admin-configured log dir
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}
