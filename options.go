package doccov

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/docrefs"
	"github.com/agentstation/doccov/pkg/errors"
	"github.com/agentstation/doccov/pkg/matcher"
	"github.com/agentstation/doccov/pkg/routes"
)

// Option is a function that configures an Analyzer
type Option func(*config) error

// config holds the plain parameters consumed by the pipeline
type config struct {
	sourceInclude  []string
	sourceExclude  []string
	docInclude     []string
	docExclude     []string
	locales        []string // nil means constants.DefaultLocales
	testConvention *routes.TestConvention
	routerNames    []string
	minConfidence  float64
	maxWorkers     int
	logger         *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		minConfidence: constants.DefaultMinConfidence,
		maxWorkers:    runtime.NumCPU(),
	}
}

// WithSourceGlobs restricts which source files are scanned. Patterns use
// doublestar syntax and match paths relative to the source root.
func WithSourceGlobs(include, exclude []string) Option {
	return func(c *config) error {
		c.sourceInclude = include
		c.sourceExclude = exclude
		return nil
	}
}

// WithDocGlobs restricts which markdown files are scanned.
func WithDocGlobs(include, exclude []string) Option {
	return func(c *config) error {
		c.docInclude = include
		c.docExclude = exclude
		return nil
	}
}

// WithLocales replaces the translation directory names excluded from the docs tree
func WithLocales(locales ...string) Option {
	return func(c *config) error {
		c.locales = append([]string{}, locales...)
		return nil
	}
}

// WithTestConvention replaces the naming convention for Python test files
func WithTestConvention(tc routes.TestConvention) Option {
	return func(c *config) error {
		c.testConvention = &tc
		return nil
	}
}

// WithRouterNames adds variable names treated as routers even without a visible assignment
func WithRouterNames(names ...string) Option {
	return func(c *config) error {
		c.routerNames = append(c.routerNames, names...)
		return nil
	}
}

// WithMinConfidence sets the score at or above which an endpoint is documented
func WithMinConfidence(score float64) Option {
	return func(c *config) error {
		if err := (matcher.Options{MinConfidence: score}).Validate(); err != nil {
			return err
		}
		c.minConfidence = score
		return nil
	}
}

// WithMaxWorkers bounds per-pass file parallelism
func WithMaxWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewValidationError("max_workers", n, "must be at least 1")
		}
		c.maxWorkers = n
		return nil
	}
}

// WithLogger sets the logger used when the context carries none
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// routeOptions translates the config for the route extractor
func (c *config) routeOptions() []routes.Option {
	opts := []routes.Option{
		routes.WithGlobs(c.sourceInclude, c.sourceExclude),
		routes.WithMaxWorkers(c.maxWorkers),
	}
	if len(c.routerNames) > 0 {
		opts = append(opts, routes.WithRouterNames(c.routerNames...))
	}
	if c.testConvention != nil {
		opts = append(opts, routes.WithTestConvention(*c.testConvention))
	}
	return opts
}

// docOptions translates the config for the reference extractor
func (c *config) docOptions() []docrefs.Option {
	opts := []docrefs.Option{
		docrefs.WithGlobs(c.docInclude, c.docExclude),
		docrefs.WithMaxWorkers(c.maxWorkers),
	}
	if c.locales != nil {
		opts = append(opts, docrefs.WithLocales(c.locales...))
	}
	return opts
}
