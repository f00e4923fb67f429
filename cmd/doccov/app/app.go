// Package app provides the application context and dependency management
// for the doccov CLI. It centralizes configuration, logging and the lazily
// created analyzer so commands receive their dependencies explicitly.
package app

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/doccov"
	"github.com/agentstation/doccov/internal/appcontext"
	"github.com/agentstation/doccov/pkg/errors"
)

// App represents the doccov application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Analyzer instance (lazy-initialized, singleton)
	mu       sync.RWMutex
	analyzer doccov.Analyzer
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Roots returns the configured source and documentation roots.
func (a *App) Roots() (string, string) {
	return a.config.Source, a.config.Docs
}

// Analyzer returns the analyzer, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Analyzer() (doccov.Analyzer, error) {
	a.mu.RLock()
	if a.analyzer != nil {
		an := a.analyzer
		a.mu.RUnlock()
		return an, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.analyzer != nil {
		return a.analyzer, nil
	}

	an, err := doccov.New(a.analyzerOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating analyzer: %w", err)
	}

	a.analyzer = an
	return an, nil
}

// AnalyzerWithOptions returns a new analyzer built from the configuration
// with extra options applied last.
func (a *App) AnalyzerWithOptions(opts ...doccov.Option) (doccov.Analyzer, error) {
	an, err := doccov.New(append(a.analyzerOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating analyzer: %w", err)
	}
	return an, nil
}

// analyzerOptions constructs analyzer options from the app configuration.
func (a *App) analyzerOptions() []doccov.Option {
	opts := []doccov.Option{doccov.WithLogger(a.logger)}

	if a.config.MinConfidence > 0 {
		opts = append(opts, doccov.WithMinConfidence(a.config.MinConfidence))
	}
	if a.config.Workers > 0 {
		opts = append(opts, doccov.WithMaxWorkers(a.config.Workers))
	}
	if len(a.config.Locales) > 0 {
		opts = append(opts, doccov.WithLocales(a.config.Locales...))
	}
	if len(a.config.SourceInclude) > 0 || len(a.config.SourceExclude) > 0 {
		opts = append(opts, doccov.WithSourceGlobs(a.config.SourceInclude, a.config.SourceExclude))
	}
	if len(a.config.DocsInclude) > 0 || len(a.config.DocsExclude) > 0 {
		opts = append(opts, doccov.WithDocGlobs(a.config.DocsInclude, a.config.DocsExclude))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithAnalyzer sets a custom analyzer instance (useful for testing).
func WithAnalyzer(an doccov.Analyzer) Option {
	return func(a *App) error {
		a.analyzer = an
		return nil
	}
}
