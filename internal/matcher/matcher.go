// Package matcher compiles include and exclude patterns for root-relative
// slash paths. Patterns are doublestar globs by default; a "re:" prefix
// selects a regular expression matched against the whole path.
package matcher

import (
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/agentstation/doccov/pkg/errors"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses doublestar patterns (*, **, ?, [], {a,b}).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto selects Regex for a "re:" prefix and Glob otherwise.
	Auto
)

// RegexPrefix marks a pattern as a regular expression under Auto.
const RegexPrefix = "re:"

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher reports whether a path matches one pattern.
type Matcher interface {
	// Match checks if the path matches the pattern
	Match(path string) bool
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// Options configures the matcher behavior.
type Options struct {
	// CaseInsensitive folds case on both sides before matching
	CaseInsensitive bool
}

type matcher struct {
	pattern         string
	patternType     PatternType
	glob            string
	compiled        *regexp.Regexp
	caseInsensitive bool
}

// New compiles a pattern. Malformed patterns return a ValidationError.
func New(patternType PatternType, pattern string, opts ...Options) (Matcher, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	m := &matcher{pattern: pattern, patternType: patternType, caseInsensitive: o.CaseInsensitive}
	body := pattern
	if patternType == Auto {
		m.patternType = Glob
		if rest, ok := strings.CutPrefix(pattern, RegexPrefix); ok {
			m.patternType = Regex
			body = rest
		}
	}

	switch m.patternType {
	case Glob:
		if o.CaseInsensitive {
			body = strings.ToLower(body)
		}
		if err := validateGlob(body); err != nil {
			return nil, errors.NewValidationError("pattern", pattern, err.Error())
		}
		m.glob = body
	case Regex:
		if o.CaseInsensitive && !strings.HasPrefix(body, "(?i)") {
			body = "(?i)" + body
		}
		compiled, err := regexp.Compile(body)
		if err != nil {
			return nil, errors.NewValidationError("pattern", pattern, err.Error())
		}
		m.compiled = compiled
	default:
		return nil, errors.NewValidationError("pattern_type", patternType.String(), "unsupported pattern type")
	}
	return m, nil
}

// validateGlob checks every path component, since doublestar only reports a
// bad pattern once matching reaches it.
func validateGlob(pattern string) error {
	for _, comp := range strings.Split(pattern, "/") {
		if _, err := path.Match(comp, ""); err != nil {
			return err
		}
	}
	return nil
}

// Match implements Matcher.
func (m *matcher) Match(p string) bool {
	if m.patternType == Regex {
		return m.compiled.MatchString(p)
	}
	if m.caseInsensitive {
		p = strings.ToLower(p)
	}
	ok, _ := doublestar.Match(m.glob, p)
	return ok
}

// Pattern implements Matcher.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type implements Matcher.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// MultiMatcher matches when any of its patterns does.
type MultiMatcher struct {
	matchers []Matcher
}

// NewMultiMatcher compiles every pattern with Auto detection.
func NewMultiMatcher(patterns []string, opts ...Options) (*MultiMatcher, error) {
	mm := &MultiMatcher{matchers: make([]Matcher, 0, len(patterns))}
	for _, p := range patterns {
		m, err := New(Auto, p, opts...)
		if err != nil {
			return nil, err
		}
		mm.matchers = append(mm.matchers, m)
	}
	return mm, nil
}

// Match returns true if any pattern matches.
func (mm *MultiMatcher) Match(path string) bool {
	for _, m := range mm.matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (mm *MultiMatcher) Len() int {
	return len(mm.matchers)
}

// Filter applies include patterns, then exclude patterns. A nil Filter
// allows every path.
type Filter struct {
	include *MultiMatcher
	exclude *MultiMatcher
}

// NewFilter compiles include and exclude patterns.
func NewFilter(include, exclude []string) (*Filter, error) {
	in, err := NewMultiMatcher(include)
	if err != nil {
		return nil, err
	}
	ex, err := NewMultiMatcher(exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{include: in, exclude: ex}, nil
}

// Allow reports whether a path passes the filter.
func (f *Filter) Allow(path string) bool {
	if f == nil {
		return true
	}
	if f.include.Len() > 0 && !f.include.Match(path) {
		return false
	}
	return !f.exclude.Match(path)
}
