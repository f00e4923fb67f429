package routes

import (
	"runtime"

	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/errors"
)

// TestConvention names the files treated as tests. Matching files are never
// scanned for routes.
type TestConvention struct {
	Prefix string   // file name prefix, "test_"
	Suffix string   // file stem suffix, "_test"
	Dirs   []string // directory names, "tests" and "test"
}

// DefaultTestConvention returns the pytest naming convention.
func DefaultTestConvention() TestConvention {
	return TestConvention{
		Prefix: constants.DefaultTestFilePrefix,
		Suffix: constants.DefaultTestFileSuffix,
		Dirs:   append([]string(nil), constants.DefaultTestDirs...),
	}
}

// options holds extractor settings.
type options struct {
	routerNames []string
	skipDirs    []string
	include     []string
	exclude     []string
	tests       TestConvention
	maxWorkers  int
}

// Option configures an Extractor.
type Option func(*options) error

func defaultOptions() *options {
	return &options{
		routerNames: append([]string(nil), constants.DefaultRouterNames...),
		skipDirs:    append([]string(nil), constants.DefaultSkipDirs...),
		tests:       DefaultTestConvention(),
		maxWorkers:  runtime.NumCPU(),
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRouterNames adds variable names treated as routers without an assignment.
func WithRouterNames(names ...string) Option {
	return func(o *options) error {
		o.routerNames = append(o.routerNames, names...)
		return nil
	}
}

// WithSkipDirs replaces the directory names that are never descended into.
func WithSkipDirs(dirs ...string) Option {
	return func(o *options) error {
		o.skipDirs = dirs
		return nil
	}
}

// WithGlobs sets include and exclude globs on root-relative paths.
func WithGlobs(include, exclude []string) Option {
	return func(o *options) error {
		o.include = include
		o.exclude = exclude
		return nil
	}
}

// WithTestConvention replaces the test-file naming convention.
func WithTestConvention(tc TestConvention) Option {
	return func(o *options) error {
		if tc.Prefix == "" && tc.Suffix == "" && len(tc.Dirs) == 0 {
			return errors.NewValidationError("test_convention", tc, "at least one of prefix, suffix or dirs is required")
		}
		o.tests = tc
		return nil
	}
}

// WithMaxWorkers bounds the number of files parsed concurrently.
func WithMaxWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewValidationError("max_workers", n, "must be at least 1")
		}
		o.maxWorkers = n
		return nil
	}
}
