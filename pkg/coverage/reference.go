package coverage

import (
	"fmt"
	"slices"
	"strings"
)

// Shape is the markdown construct a mention was found in.
type Shape string

// Mention shapes, strongest evidence first.
const (
	ShapeTable  Shape = "table"
	ShapeFenced Shape = "fenced"
	ShapeInline Shape = "inline-code"
	ShapeBare   Shape = "bare"
)

// Structured reports whether the shape pins a method to a path by layout.
func (s Shape) Structured() bool {
	return s == ShapeTable || s == ShapeFenced
}

// Mention is a single method and/or path occurrence on one line.
// Method is empty for a path-only mention and Path for a method-only one.
type Mention struct {
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Shape  Shape  `json:"shape" yaml:"shape"`
	Line   int    `json:"line" yaml:"line"`
}

// Paired reports whether the mention carries both a method and a path.
func (m Mention) Paired() bool {
	return m.Method != "" && m.Path != ""
}

// DocReference groups every mention under one heading of one markdown file.
type DocReference struct {
	File             string    `json:"file" yaml:"file"`                           // Relative to the docs root
	Heading          string    `json:"heading,omitempty" yaml:"heading,omitempty"` // Nearest preceding heading text
	Line             int       `json:"line" yaml:"line"`                           // Line of the first mention
	Content          string    `json:"content" yaml:"content"`                     // Mention lines as written
	MentionedPaths   []string  `json:"mentioned_paths" yaml:"mentioned_paths"`     // Deduplicated, first-seen order
	MentionedMethods []string  `json:"mentioned_methods" yaml:"mentioned_methods"` // Deduplicated upper-case, first-seen order
	Mentions         []Mention `json:"mentions" yaml:"mentions"`
}

// Empty reports whether the reference mentions nothing.
func (r *DocReference) Empty() bool {
	return len(r.MentionedPaths) == 0 && len(r.MentionedMethods) == 0
}

// Add records a mention and its original line text.
func (r *DocReference) Add(m Mention, lineText string) {
	if len(r.Mentions) == 0 {
		r.Line = m.Line
	}
	if m.Path != "" && !slices.Contains(r.MentionedPaths, m.Path) {
		r.MentionedPaths = append(r.MentionedPaths, m.Path)
	}
	if m.Method != "" {
		method := strings.ToUpper(m.Method)
		m.Method = method
		if !slices.Contains(r.MentionedMethods, method) {
			r.MentionedMethods = append(r.MentionedMethods, method)
		}
	}
	if n := len(r.Mentions); n == 0 || r.Mentions[n-1].Line != m.Line {
		if r.Content != "" {
			r.Content += "\n"
		}
		r.Content += strings.TrimRight(lineText, " \t")
	}
	r.Mentions = append(r.Mentions, m)
}

// MentionsMethod reports whether method appears anywhere in the reference.
func (r *DocReference) MentionsMethod(method string) bool {
	for _, m := range r.MentionedMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// Location returns the reference position.
func (r *DocReference) Location() Location {
	return Location{File: r.File, Line: r.Line}
}

// String returns a short display form.
func (r *DocReference) String() string {
	if r.Heading != "" {
		return fmt.Sprintf("%s:%d (%s)", r.File, r.Line, r.Heading)
	}
	return fmt.Sprintf("%s:%d", r.File, r.Line)
}
