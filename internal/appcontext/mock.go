package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/doccov"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	AnalyzerFunc            func() (doccov.Analyzer, error)
	AnalyzerWithOptionsFunc func(...doccov.Option) (doccov.Analyzer, error)
	LoggerFunc              func() *zerolog.Logger
	SourceRoot              string
	DocsRoot                string
	Format                  string
	VersionFunc             func() string
	CommitFunc              func() string
	DateFunc                func() string
	BuiltByFunc             func() string
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// Analyzer returns an analyzer using the mock function or a default one.
func (m *Mock) Analyzer() (doccov.Analyzer, error) {
	if m.AnalyzerFunc != nil {
		return m.AnalyzerFunc()
	}
	return doccov.New(doccov.WithLogger(m.Logger()))
}

// AnalyzerWithOptions returns an analyzer using the mock function or one
// built from the given options.
func (m *Mock) AnalyzerWithOptions(opts ...doccov.Option) (doccov.Analyzer, error) {
	if m.AnalyzerWithOptionsFunc != nil {
		return m.AnalyzerWithOptionsFunc(opts...)
	}
	return doccov.New(append([]doccov.Option{doccov.WithLogger(m.Logger())}, opts...)...)
}

// Roots returns the mock roots. Empty values fall back to flag defaults.
func (m *Mock) Roots() (string, string) {
	return m.SourceRoot, m.DocsRoot
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "table".
func (m *Mock) OutputFormat() string {
	if m.Format != "" {
		return m.Format
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}
