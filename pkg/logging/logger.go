// Package logging provides structured logging for doccov using zerolog.
// Output is human-readable console text on a terminal and JSON otherwise, so
// CI runs can ship skip and warning events to a log pipeline unchanged.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("root", "./src").Msg("Extracting routes")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	ctx = logging.WithStage(ctx, "routes")
//	logging.FromContext(ctx).Debug().Str("file", "app/main.py").Msg("Parsed")
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(DefaultConfig())

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a JSON logger writing to w at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// NewNopLogger creates a logger that discards all output.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
