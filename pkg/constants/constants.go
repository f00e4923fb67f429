// Package constants provides shared constants used throughout the doccov codebase.
// This includes confidence levels, file selection lists, permissions and limits
// that should be consistent across the extractors, the matcher and the CLI.
package constants

import "time"

// Confidence constants are the scores assigned by the matching rule table
const (
	// ConfidenceStructured is assigned to a method/path pair inside a table row or fenced block
	ConfidenceStructured = 1.0

	// ConfidenceInline is assigned to a method/path pair in inline code or prose
	ConfidenceInline = 0.7

	// ConfidencePathOnly is assigned when the path appears without an adjacent method
	ConfidencePathOnly = 0.4

	// DefaultMinConfidence is the score at or above which an endpoint counts as documented
	DefaultMinConfidence = ConfidenceInline
)

// EnvPrefix namespaces doccov environment variables (DOCCOV_SOURCE, ...).
const EnvPrefix = "DOCCOV"

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// FilePermissions is the mode for log files named by the log_output setting (rw-r--r--)
const FilePermissions = 0644

// Limit constants
const (
	// MaxFileSize is the largest source or markdown file read, in bytes
	MaxFileSize = 4 << 20

	// BinarySniffLength is how many leading bytes are checked for NUL when detecting binary files
	BinarySniffLength = 8000
)

// HTTPMethods lists the request methods recognized in decorators and documentation.
var HTTPMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"}

// DefaultRouterNames are variable names treated as routers without an assignment.
var DefaultRouterNames = []string{"app", "router"}

// DefaultSkipDirs are directory names never descended into by the route extractor.
var DefaultSkipDirs = []string{
	"__pycache__", ".venv", "venv", "env", ".env", ".git", ".hg", ".svn",
	"node_modules", "site-packages", "build", "dist", ".tox", ".nox",
	".mypy_cache", ".pytest_cache", ".ruff_cache", "docs_src", "examples", "example",
}

// DefaultTestDirs are directory names whose contents are treated as tests.
var DefaultTestDirs = []string{"tests", "test"}

// DefaultTestFilePrefix and DefaultTestFileSuffix mark Python test modules.
const (
	DefaultTestFilePrefix = "test_"
	DefaultTestFileSuffix = "_test"
)

// DefaultDocDirs are directories whose markdown is always a documentation candidate.
var DefaultDocDirs = []string{"docs", "documentation"}

// DefaultExcludedDocs are markdown file names that never describe the API.
var DefaultExcludedDocs = []string{
	"CHANGELOG.md", "CHANGES.md", "HISTORY.md", "LICENSE.md",
	"CONTRIBUTING.md", "CODE_OF_CONDUCT.md", "SECURITY.md",
}

// DefaultLocales are directory names treated as translated documentation.
var DefaultLocales = []string{
	"ar", "az", "bn", "de", "em", "es", "fa", "fr", "he", "hi", "hu", "id",
	"it", "ja", "ko", "nl", "pl", "pt", "pt-br", "ru", "th", "tr", "uk",
	"ur", "vi", "yo", "zh", "zh-cn", "zh-hans", "zh-hant", "zh-tw",
}
