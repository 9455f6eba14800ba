// Package logging sets up the zerolog logger. The terminal belongs to the
// device UI, so logs go to a file; a component that cannot open its log file
// still runs, just silently.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON lines to path and a close func for the
// underlying file. An empty path discards all output.
func New(path, level string) (zerolog.Logger, func() error, error) {
	noClose := func() error { return nil }
	if path == "" {
		return zerolog.New(io.Discard), noClose, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.New(io.Discard), noClose, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	return logger, f.Close, nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
