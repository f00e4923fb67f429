// Package walk discovers candidate files under a root directory. Both
// extractors use it so that skip rules, glob filters and ordering behave the
// same way for source and documentation trees.
package walk

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/agentstation/doccov/internal/matcher"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/errors"
)

// File is a regular file found under the root.
type File struct {
	// Root-relative path using forward slashes (e.g., "app/routers/users.py").
	Path string
	// Absolute filesystem path.
	AbsPath string
	// Lowercased extension (e.g., ".py"); empty when the file has none.
	Ext string
}

// Options controls which entries are visited.
type Options struct {
	// SkipDir is consulted for every directory below the root.
	SkipDir func(rel, name string) bool
	// Keep is consulted for every regular file that survived the globs.
	Keep func(rel string) bool
	// Include patterns a file must match, when non-empty. Doublestar globs,
	// or regular expressions with a "re:" prefix.
	Include []string
	// Exclude patterns that drop a file.
	Exclude []string
}

// Result holds the files found and the entries that could not be read.
type Result struct {
	Files   []File
	Skipped []coverage.Skip
}

// CheckRoot verifies that root exists and is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("directory", root)
		}
		return errors.WrapIO("stat", root, err)
	}
	if !info.IsDir() {
		return errors.NewValidationError("root", root, "not a directory")
	}
	return nil
}

// ValidateGlobs rejects malformed patterns before a walk starts.
func ValidateGlobs(patterns []string) error {
	_, err := matcher.NewMultiMatcher(patterns)
	return err
}

// Files walks root and returns matching files sorted by path.
func Files(ctx context.Context, root string, opts Options) (*Result, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}
	filter, err := matcher.NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(root, osPathname)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if rel == "." {
				return nil
			}

			if de.IsDir() {
				if opts.SkipDir != nil && opts.SkipDir(rel, de.Name()) {
					return godirwalk.SkipThis
				}
				return nil
			}
			if !de.IsRegular() {
				return nil
			}
			if !filter.Allow(rel) {
				return nil
			}
			if opts.Keep != nil && !opts.Keep(rel) {
				return nil
			}

			res.Files = append(res.Files, File{
				Path:    rel,
				AbsPath: osPathname,
				Ext:     strings.ToLower(filepath.Ext(rel)),
			})
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			rel, relErr := filepath.Rel(root, osPathname)
			if relErr != nil {
				rel = osPathname
			}
			res.Skipped = append(res.Skipped, coverage.Skip{
				Kind:   coverage.SkipUnreadable,
				File:   filepath.ToSlash(rel),
				Reason: err.Error(),
			})
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.WrapIO("walk", root, err)
	}

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	return res, nil
}

// Hidden reports whether a path component starts with a dot.
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Segments splits a relative slash path into its components.
func Segments(rel string) []string {
	return strings.Split(rel, "/")
}
