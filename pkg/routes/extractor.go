// Package routes extracts FastAPI endpoints, router objects and
// include_router mounts from a Python source tree.
//
// Each file is parsed with tree-sitter and matched against a closed set of
// statement shapes: router construction, router aliasing, route decorators
// with a literal path, and include_router calls. Anything else is ignored,
// and dynamic paths are recorded as skips rather than guessed at.
package routes

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

// Extraction is the linked result of scanning a source tree.
type Extraction struct {
	Endpoints []*coverage.Endpoint
	Routers   []*coverage.Router
	Mounts    []coverage.Mount
	Skipped   []coverage.Skip
	Files     int
}

// Extractor scans source trees for routes.
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

// Extract walks root, parses every Python file and links router references
// across files. It returns an IncompleteError if ctx is canceled.
func (e *Extractor) Extract(ctx context.Context, root string) (*Extraction, error) {
	ctx = logging.WithStage(ctx, "routes")
	logger := logging.FromContext(ctx)

	found, err := walk.Files(ctx, root, walk.Options{
		SkipDir: e.opts.skipDir,
		Keep:    e.opts.keepFile,
		Include: e.opts.include,
		Exclude: e.opts.exclude,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewIncompleteError("routes", 0, 0, ctx.Err())
		}
		return nil, err
	}
	logger.Debug().Int("files", len(found.Files)).Str("root", root).Msg("Discovered source files")

	var processed atomic.Int64
	p := pool.NewWithResults[*FileResult]().
		WithContext(ctx).
		WithMaxGoroutines(e.opts.maxWorkers)
	for _, f := range found.Files {
		p.Go(func(ctx context.Context) (*FileResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, err := e.parseFile(ctx, f)
			if err != nil {
				return nil, err
			}
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
		return nil, errors.NewIncompleteError("routes", int(processed.Load()), len(found.Files), cause)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	out := link(ctx, results)
	out.Files = len(found.Files)
	out.Skipped = append(found.Skipped, out.Skipped...)
	coverage.SortSkips(out.Skipped)
	for _, s := range out.Skipped {
		logging.Skip(logger, s)
	}

	logger.Info().
		Int("files", out.Files).
		Int("endpoints", len(out.Endpoints)).
		Int("routers", len(out.Routers)).
		Int("mounts", len(out.Mounts)).
		Int("skipped", len(out.Skipped)).
		Msg("Extracted routes")
	return out, nil
}

// parseFile reads and parses one file. Read and parse failures become skips,
// logged once the pass completes; only cancellation is returned as an error.
func (e *Extractor) parseFile(ctx context.Context, f walk.File) (*FileResult, error) {
	fctx := logging.WithFile(ctx, f.Path)

	info, err := os.Stat(f.AbsPath)
	if err == nil && info.Size() > constants.MaxFileSize {
		return skipped(f.Path, coverage.SkipTooLarge, fmt.Sprintf("%d bytes", info.Size())), nil
	}
	src, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return skipped(f.Path, coverage.SkipUnreadable, err.Error()), nil
	}

	var (
		res      *FileResult
		parseErr error
		catcher  panics.Catcher
	)
	catcher.Try(func() {
		res, parseErr = ParseFile(fctx, src, f.Path, e.opts.routerNames...)
	})
	if r := catcher.Recovered(); r != nil {
		return skipped(f.Path, coverage.SkipSyntax, fmt.Sprintf("parser panic: %v", r.Value)), nil
	}
	if parseErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return skipped(f.Path, coverage.SkipSyntax, parseErr.Error()), nil
	}
	return res, nil
}

func skipped(rel string, kind coverage.SkipKind, reason string) *FileResult {
	return &FileResult{
		File:    rel,
		Module:  ModulePath(rel),
		Skipped: []coverage.Skip{{Kind: kind, File: rel, Reason: reason}},
	}
}

// link replaces provisional router IDs with the IDs of routers actually
// defined in the tree. Endpoints bound only through an import that matches
// no known router are dropped.
func link(ctx context.Context, results []*FileResult) *Extraction {
	logger := logging.FromContext(ctx)
	out := &Extraction{}
	idx := newRouterIndex()

	for _, r := range results {
		for _, router := range r.Routers {
			if idx.add(router) {
				out.Routers = append(out.Routers, router)
			}
		}
		out.Skipped = append(out.Skipped, r.Skipped...)
	}

	for _, r := range results {
		for _, route := range r.Routes {
			id, ok := idx.lookup(route.Endpoint.Router)
			if !ok && !route.Verified {
				logger.Debug().
					Str("file", route.Endpoint.Location.File).
					Int("line", route.Endpoint.Location.Line).
					Str("router", route.Endpoint.Router).
					Msg("Dropping decorator on an unknown imported object")
				continue
			}
			if ok {
				route.Endpoint.Router = id
			}
			out.Endpoints = append(out.Endpoints, route.Endpoint)
		}
		for _, m := range r.Mounts {
			parent, ok := idx.lookup(m.Mount.Parent)
			if !ok && !m.Verified {
				continue
			}
			if ok {
				m.Mount.Parent = parent
			}
			if child, ok := idx.lookup(m.Mount.Child); ok {
				m.Mount.Child = child
			}
			out.Mounts = append(out.Mounts, m.Mount)
		}
	}

	coverage.SortEndpoints(out.Endpoints)
	coverage.SortRouters(out.Routers)
	coverage.SortMounts(out.Mounts)
	return out
}

// routerIndex finds defined routers by exact ID or by variable name plus a
// module that agrees on a dotted suffix.
type routerIndex struct {
	byID   map[string]*coverage.Router
	byName map[string][]string // variable -> modules, sorted
}

func newRouterIndex() *routerIndex {
	return &routerIndex{byID: map[string]*coverage.Router{}, byName: map[string][]string{}}
}

func (x *routerIndex) add(r *coverage.Router) bool {
	if _, dup := x.byID[r.ID]; dup {
		return false
	}
	x.byID[r.ID] = r
	mod, name := splitID(r.ID)
	mods := append(x.byName[name], mod)
	sort.Strings(mods)
	x.byName[name] = mods
	return true
}

func (x *routerIndex) lookup(id string) (string, bool) {
	if _, ok := x.byID[id]; ok {
		return id, true
	}
	mod, name := splitID(id)
	for _, candidate := range x.byName[name] {
		if moduleMatches(candidate, mod) {
			return routerID(candidate, name), true
		}
	}
	return "", false
}
