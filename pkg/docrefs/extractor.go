// Package docrefs finds endpoint mentions in a markdown documentation tree.
//
// Files are selected by name and location, then scanned line by line for
// four shapes: METHOD /path pairs in fenced blocks, in inline code, in
// prose, and in table rows. Text inside HTML comments is ignored. Mentions
// that share a heading are merged into one coverage.DocReference.
package docrefs

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/agentstation/doccov/internal/walk"
	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/errors"
	"github.com/agentstation/doccov/pkg/logging"
)

// Extraction is the result of scanning a documentation tree.
type Extraction struct {
	References []*coverage.DocReference
	Warnings   []coverage.Warning
	Skipped    []coverage.Skip
	Files      int
}

// Extractor scans documentation trees for endpoint mentions.
type Extractor struct {
	opts *options
}

// New creates an Extractor.
func New(opts ...Option) (*Extractor, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if err := walk.ValidateGlobs(append(append([]string{}, o.include...), o.exclude...)); err != nil {
		return nil, err
	}
	return &Extractor{opts: o}, nil
}

type fileResult struct {
	file     string
	refs     []*coverage.DocReference
	warnings []coverage.Warning
	skip     *coverage.Skip
}

// Extract walks root and scans every selected markdown file. It returns an
// IncompleteError if ctx is canceled.
func (e *Extractor) Extract(ctx context.Context, root string) (*Extraction, error) {
	ctx = logging.WithStage(ctx, "references")
	logger := logging.FromContext(ctx)

	found, err := walk.Files(ctx, root, walk.Options{
		SkipDir: e.opts.skipDir,
		Keep:    e.opts.keepFile,
		Include: e.opts.include,
		Exclude: e.opts.exclude,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewIncompleteError("references", 0, 0, ctx.Err())
		}
		return nil, err
	}
	logger.Debug().Int("files", len(found.Files)).Str("root", root).Msg("Discovered documentation files")

	var processed atomic.Int64
	p := pool.NewWithResults[*fileResult]().
		WithContext(ctx).
		WithMaxGoroutines(e.opts.maxWorkers)
	for _, f := range found.Files {
		p.Go(func(ctx context.Context) (*fileResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res := scanFile(ctx, f)
			processed.Add(1)
			return res, nil
		})
	}
	results, err := p.Wait()
	if err != nil || ctx.Err() != nil {
		cause := ctx.Err()
		if cause == nil {
			cause = err
		}
		return nil, errors.NewIncompleteError("references", int(processed.Load()), len(found.Files), cause)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].file < results[j].file })
	out := &Extraction{Files: len(found.Files), Skipped: found.Skipped}
	for _, r := range results {
		out.References = append(out.References, r.refs...)
		out.Warnings = append(out.Warnings, r.warnings...)
		if r.skip != nil {
			out.Skipped = append(out.Skipped, *r.skip)
		}
	}
	coverage.SortReferences(out.References)
	coverage.SortSkips(out.Skipped)

	for _, s := range out.Skipped {
		logging.Skip(logger, s)
	}
	for _, w := range out.Warnings {
		logging.Warning(logger, w)
	}
	logger.Info().
		Int("files", out.Files).
		Int("references", len(out.References)).
		Int("warnings", len(out.Warnings)).
		Int("skipped", len(out.Skipped)).
		Msg("Extracted documentation references")
	return out, nil
}

// scanFile reads and scans one file. Failures become skips, logged by the
// caller once the pass completes.
func scanFile(ctx context.Context, f walk.File) *fileResult {
	logger := logging.FromContext(logging.WithFile(ctx, f.Path))
	res := &fileResult{file: f.Path}
	skip := func(kind coverage.SkipKind, reason string) *fileResult {
		res.skip = &coverage.Skip{Kind: kind, File: f.Path, Reason: reason}
		return res
	}

	info, err := os.Stat(f.AbsPath)
	if err == nil && info.Size() > constants.MaxFileSize {
		return skip(coverage.SkipTooLarge, fmt.Sprintf("%d bytes", info.Size()))
	}
	src, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return skip(coverage.SkipUnreadable, err.Error())
	}
	text, err := Decode(src, f.Path)
	if err != nil {
		return skip(coverage.SkipEncoding, err.Error())
	}

	var catcher panics.Catcher
	catcher.Try(func() {
		res.refs, res.warnings = ParseMarkdown(text, f.Path)
	})
	if r := catcher.Recovered(); r != nil {
		res.refs, res.warnings = nil, nil
		return skip(coverage.SkipSyntax, fmt.Sprintf("scanner panic: %v", r.Value))
	}
	logger.Debug().Int("references", len(res.refs)).Msg("Scanned file")
	return res
}
