package docrefs

import (
	"runtime"
	"strings"

	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/errors"
)

// options holds extractor settings.
type options struct {
	locales    map[string]bool
	excluded   map[string]bool
	include    []string
	exclude    []string
	maxWorkers int
}

// Option configures an Extractor.
type Option func(*options) error

func defaultOptions() *options {
	o := &options{maxWorkers: runtime.NumCPU()}
	o.setLocales(constants.DefaultLocales)
	o.excluded = make(map[string]bool, len(constants.DefaultExcludedDocs))
	for _, name := range constants.DefaultExcludedDocs {
		o.excluded[strings.ToLower(name)] = true
	}
	return o
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) setLocales(locales []string) {
	o.locales = make(map[string]bool, len(locales))
	for _, l := range locales {
		o.locales[strings.ToLower(l)] = true
	}
}

// WithLocales replaces the directory names excluded as translations.
// Matching is case-insensitive.
func WithLocales(locales ...string) Option {
	return func(o *options) error {
		o.setLocales(locales)
		return nil
	}
}

// WithGlobs sets include and exclude globs on docs-root-relative paths.
// They narrow the default selection; they never widen it.
func WithGlobs(include, exclude []string) Option {
	return func(o *options) error {
		o.include = include
		o.exclude = exclude
		return nil
	}
}

// WithMaxWorkers bounds the number of files scanned concurrently.
func WithMaxWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewValidationError("max_workers", n, "must be at least 1")
		}
		o.maxWorkers = n
		return nil
	}
}
