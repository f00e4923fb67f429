// Package appcontext provides the shared application context interface
// used by all commands. This eliminates interface duplication across
// command packages and provides a single source of truth for app dependencies.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/doccov"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/doccov/app implements this interface, so commands
// can be tested against Mock instead of a fully configured App.
type Interface interface {
	// Analyzer returns the default analyzer, creating it lazily from the
	// loaded configuration.
	Analyzer() (doccov.Analyzer, error)

	// AnalyzerWithOptions creates a new analyzer from the configuration
	// with extra options applied last. Use this when command flags override
	// configured values (e.g. scan --min-confidence).
	AnalyzerWithOptions(...doccov.Option) (doccov.Analyzer, error)

	// Roots returns the configured source and documentation roots.
	Roots() (source, docs string)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
