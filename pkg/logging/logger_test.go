package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/logging"
)

// restoreDefault puts the process logger and global level back after a test.
func restoreDefault(t *testing.T) {
	t.Helper()
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})
}

func TestSetDefault(t *testing.T) {
	restoreDefault(t)

	buf := &bytes.Buffer{}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logging.SetDefault(logging.New(buf))

	logging.Default().Debug().Msg("debug message")
	logging.FromContext(context.Background()).Info().Msg("info message")

	assert.Contains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "info message")
}

func TestContextLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithStage(ctx, "routes")
	ctx = logging.WithRoot(ctx, "./src")
	ctx = logging.WithFile(ctx, "app/users.py")
	logging.FromContext(ctx).Info().Msg("parsed file")

	entries := tl.Find("parsed file")
	require.Len(t, entries, 1)
	assert.Equal(t, "routes", entries[0]["stage"])
	assert.Equal(t, "./src", entries[0]["root"])
	assert.Equal(t, "app/users.py", entries[0]["file"])
}

func TestContextFallbacks(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))

	ctx := logging.WithLogger(context.Background(), nil)
	assert.Same(t, logging.Default(), logging.FromContext(ctx))
}

func TestSkipEvents(t *testing.T) {
	tl := logging.NewTestLogger(t)

	logging.Skip(tl.Logger, coverage.Skip{Kind: coverage.SkipEncoding, File: "docs/blob.md", Reason: "not UTF-8"})
	logging.Skip(tl.Logger, coverage.Skip{Kind: coverage.SkipDynamic, File: "app/main.py", Line: 12, Reason: "path is not a string literal"})

	whole := tl.Find("not UTF-8")
	require.Len(t, whole, 1)
	assert.Equal(t, "warn", whole[0]["level"])
	assert.Equal(t, "encoding", whole[0]["kind"])
	assert.Equal(t, "docs/blob.md", whole[0]["skip_file"])

	construct := tl.Find("path is not a string literal")
	require.Len(t, construct, 1)
	assert.Equal(t, "debug", construct[0]["level"])
	assert.EqualValues(t, 12, construct[0]["line"])
}

func TestWarningEvents(t *testing.T) {
	tl := logging.NewTestLogger(t)

	logging.Warning(tl.Logger, coverage.Warning{
		Kind:     coverage.WarnMountCycle,
		Message:  "mount cycle: a -> b -> a",
		Location: coverage.Location{File: "app/a.py", Line: 4},
		Routers:  []string{"app.a:router", "app.b:router"},
	})

	entries := tl.Find("mount cycle: a -> b -> a")
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "mount-cycle", entries[0]["kind"])
	assert.Equal(t, "app/a.py:4", entries[0]["location"])
	assert.Equal(t, []any{"app.a:router", "app.b:router"}, entries[0]["routers"])
}

func TestConfig(t *testing.T) {
	restoreDefault(t)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DOCCOV_LOG_LEVEL", "debug")
		cfg := logging.DefaultConfig()
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
	})

	t.Run("file output respects level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doccov.log")
		logging.Configure(&logging.Config{Level: "warn", Format: "json", Output: path})

		logging.Default().Info().Msg("info message")
		logging.Default().Warn().Msg("warn message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "info message")
		assert.Contains(t, string(content), "warn message")
	})

	t.Run("console format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:   "info",
			Format:  "console",
			Output:  path,
			NoColor: true,
		})
		logger.Info().Str("key", "value").Msg("console test")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "console test")
		assert.Contains(t, string(content), "INF")
	})

	t.Run("discard", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "error", Output: "discard"})
		assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Info().Msg("message 1")
	tl.Error().Msg("message 2")

	tl.AssertContains(t, "message 1")
	assert.Len(t, tl.Entries(), 2)
	assert.Empty(t, tl.Find("message 3"))
}
