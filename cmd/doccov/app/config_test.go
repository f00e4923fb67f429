package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doccov/pkg/constants"
)

// isolate runs the test in an empty working directory and home.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultMinConfidence, config.MinConfidence)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.LogLevel, "empty level defers to -v/-q")
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DOCCOV_SOURCE", "./app")
	t.Setenv("DOCCOV_FORMAT", "json")
	t.Setenv("DOCCOV_MIN_CONFIDENCE", "1.0")
	t.Setenv("DOCCOV_LOCALES", "fr, de")
	t.Setenv("DOCCOV_WORKERS", "3")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "./app", config.Source)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, 1.0, config.MinConfidence)
	assert.Equal(t, []string{"fr", "de"}, config.Locales)
	assert.Equal(t, 3, config.Workers)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	yaml := `source: ./src
docs: ./docs
min_confidence: 0.4
docs_exclude:
  - "drafts/**"
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".doccov.yaml"), []byte(yaml), 0o644))

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "./src", config.Source)
	assert.Equal(t, "./docs", config.Docs)
	assert.Equal(t, 0.4, config.MinConfidence)
	assert.Equal(t, []string{"drafts/**"}, config.DocsExclude)
	assert.Equal(t, "debug", config.LogLevel)
	assert.NotEmpty(t, config.ConfigFile)

	t.Run("environment beats file", func(t *testing.T) {
		t.Setenv("DOCCOV_SOURCE", "./override")
		config, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "./override", config.Source)
	})
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCCOV_DOCS=./from-env\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DOCCOV_DOCS") })

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "./from-env", config.Docs)
}

func TestLoadConfigFileExplicit(t *testing.T) {
	dir := isolate(t)

	_, err := LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\n"), 0o644))
	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml", config.Format)
}

func TestConfigUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", LogLevel: "error"}

	config.UpdateFromFlags(false, false, true, "", "")
	assert.True(t, config.NoColor)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "error", config.LogLevel)

	config.UpdateFromFlags(true, false, false, "yaml", "")
	assert.True(t, config.Verbose)
	assert.Equal(t, "yaml", config.Format)
	assert.Empty(t, config.LogLevel, "-v on the command line beats a configured level")

	config.UpdateFromFlags(false, false, false, "", "trace")
	assert.Equal(t, "trace", config.LogLevel)
}
