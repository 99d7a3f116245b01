// Package logging configures the zerolog diagnostics logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the application logger. The TUI owns the terminal, so
// diagnostics go to the given file; an empty path yields a disabled logger.
// The returned closer releases the log file and is safe to close on exit in
// either case.
func Setup(level, file string) (zerolog.Logger, io.Closer, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level: %w", err)
	}

	if file == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	out, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("could not open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(out).Level(parsed).With().Timestamp().Logger()
	return logger, out, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
