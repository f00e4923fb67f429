// Package doccov measures how much of a FastAPI application's HTTP surface is
// described by its markdown documentation.
//
// An Analyzer runs two independent extraction passes, one over the Python
// source tree and one over the documentation tree, then resolves router
// prefixes and matches every endpoint against the documentation references:
//
//	a, err := doccov.New(doccov.WithMinConfidence(0.7))
//	if err != nil {
//		return err
//	}
//	report, err := a.Analyze(ctx, "./app", "./docs")
//
// The report lists one coverage.MatchResult per resolved endpoint along with
// every structural warning and skipped input. A canceled run returns an
// *errors.IncompleteError and never a partial report.
package doccov

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/agentstation/doccov/internal/walk"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/docrefs"
	"github.com/agentstation/doccov/pkg/errors"
	"github.com/agentstation/doccov/pkg/logging"
	"github.com/agentstation/doccov/pkg/matcher"
	"github.com/agentstation/doccov/pkg/resolver"
	"github.com/agentstation/doccov/pkg/routes"
)

// Analyzer computes documentation coverage
type Analyzer interface {
	// Analyze scans both trees and reconciles them. The roots may be equal.
	Analyze(ctx context.Context, sourceRoot, docsRoot string) (*coverage.Report, error)

	// Endpoints scans the source tree and resolves router prefixes
	Endpoints(ctx context.Context, sourceRoot string) (*EndpointSet, error)

	// References scans the documentation tree
	References(ctx context.Context, docsRoot string) (*docrefs.Extraction, error)

	// OnResult registers a callback for endpoint verdicts
	OnResult(ResultHook)

	// OnWarning registers a callback for structural warnings
	OnWarning(WarningHook)

	// OnSkip registers a callback for skipped inputs
	OnSkip(SkipHook)
}

// EndpointSet is the resolved output of the source pass.
type EndpointSet struct {
	Endpoints  []*coverage.Endpoint
	Unresolved []*coverage.Endpoint
	Routers    []*coverage.Router
	Warnings   []coverage.Warning
	Skipped    []coverage.Skip
	Files      int
}

// analyzer is the internal implementation of the Analyzer interface
type analyzer struct {
	config *config
	routes *routes.Extractor
	docs   *docrefs.Extractor

	*hooks
}

// New creates a new Analyzer with the given options
func New(opts ...Option) (Analyzer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	re, err := routes.New(cfg.routeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("configuring route extractor: %w", err)
	}
	de, err := docrefs.New(cfg.docOptions()...)
	if err != nil {
		return nil, fmt.Errorf("configuring reference extractor: %w", err)
	}

	return &analyzer{
		config: cfg,
		routes: re,
		docs:   de,
		hooks:  newHooks(),
	}, nil
}

func (a *analyzer) withLogger(ctx context.Context) context.Context {
	if a.config.logger != nil && logging.FromContext(ctx) == logging.Default() {
		return logging.WithLogger(ctx, a.config.logger)
	}
	return ctx
}

// Analyze implements Analyzer
func (a *analyzer) Analyze(ctx context.Context, sourceRoot, docsRoot string) (*coverage.Report, error) {
	ctx = a.withLogger(ctx)
	logger := logging.FromContext(ctx)

	if err := walk.CheckRoot(sourceRoot); err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	if err := walk.CheckRoot(docsRoot); err != nil {
		return nil, fmt.Errorf("docs root: %w", err)
	}

	report := coverage.NewReport(sourceRoot, docsRoot)
	report.Metadata.MinConfidence = a.config.minConfidence
	logger.Info().Str("source", sourceRoot).Str("docs", docsRoot).Msg("Starting coverage analysis")

	var (
		endpoints      *EndpointSet
		refs           *docrefs.Extraction
		srcErr, docErr error
	)
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		endpoints, srcErr = a.Endpoints(ctx, sourceRoot)
		return srcErr
	})
	p.Go(func(ctx context.Context) error {
		refs, docErr = a.References(ctx, docsRoot)
		return docErr
	})
	if err := p.Wait(); err != nil {
		return nil, firstCause(srcErr, docErr, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewIncompleteError("analyze", 0, 0, err)
	}

	report.Endpoints = endpoints.Endpoints
	report.Unresolved = endpoints.Unresolved
	report.Routers = endpoints.Routers
	report.References = refs.References
	report.Warnings = append(append(report.Warnings, endpoints.Warnings...), refs.Warnings...)
	report.Skipped = append(append(report.Skipped, endpoints.Skipped...), refs.Skipped...)
	coverage.SortSkips(report.Skipped)
	report.Metadata.SourceFiles = endpoints.Files
	report.Metadata.DocFiles = refs.Files

	report.Results = matcher.Match(report.Endpoints, report.References, matcher.Options{MinConfidence: a.config.minConfidence})
	report.Finalize()

	a.triggerReport(report)
	event := logger.Info()
	if report.HasStructuralWarnings() {
		event = logger.Warn().Bool("incomplete", true)
	}
	event.
		Int("endpoints", report.Summary.Total).
		Int("documented", report.Summary.Documented).
		Int("ambiguous", report.Summary.Ambiguous).
		Int("undocumented", report.Summary.Undocumented).
		Float64("coverage", report.Summary.Coverage).
		Dur("duration", report.Metadata.Duration).
		Msg("Coverage analysis complete")
	return report, nil
}

// Endpoints implements Analyzer
func (a *analyzer) Endpoints(ctx context.Context, sourceRoot string) (*EndpointSet, error) {
	ctx = logging.WithRoot(a.withLogger(ctx), sourceRoot)
	ex, err := a.routes.Extract(ctx, sourceRoot)
	if err != nil {
		return nil, err
	}

	res := resolver.Resolve(ex.Routers, ex.Mounts, ex.Endpoints)
	logger := logging.FromContext(logging.WithStage(ctx, "resolve"))
	for _, w := range res.Warnings {
		logging.Warning(logger, w)
	}
	if len(res.Unresolved) > 0 {
		logger.Warn().Int("unresolved", len(res.Unresolved)).Msg("Endpoints behind a mount cycle were not resolved")
	}

	return &EndpointSet{
		Endpoints:  res.Endpoints,
		Unresolved: res.Unresolved,
		Routers:    ex.Routers,
		Warnings:   res.Warnings,
		Skipped:    ex.Skipped,
		Files:      ex.Files,
	}, nil
}

// References implements Analyzer
func (a *analyzer) References(ctx context.Context, docsRoot string) (*docrefs.Extraction, error) {
	ctx = logging.WithRoot(a.withLogger(ctx), docsRoot)
	return a.docs.Extract(ctx, docsRoot)
}

// firstCause prefers an error that is not a side effect of cancellation.
func firstCause(errs ...error) error {
	var fallback error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.IsIncomplete(err) {
			return err
		}
		if fallback == nil {
			fallback = err
		}
	}
	return fallback
}
