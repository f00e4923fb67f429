package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger stores a logger in the context. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the context logger, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithStage tags events with the pipeline stage (routes, references, resolve).
func WithStage(ctx context.Context, stage string) context.Context {
	return withStr(ctx, "stage", stage)
}

// WithRoot tags events with the tree being scanned.
func WithRoot(ctx context.Context, root string) context.Context {
	return withStr(ctx, "root", root)
}

// WithFile tags events with the root-relative file being processed.
func WithFile(ctx context.Context, file string) context.Context {
	return withStr(ctx, "file", file)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
