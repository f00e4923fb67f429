package docrefs

import (
	"regexp"
	"strings"

	"github.com/agentstation/doccov/pkg/coverage"
)

const pathChars = `[A-Za-z0-9/_\-{}:.]`

var (
	// METHOD /path, METHOD | /path, METHOD "https://host/path"
	pairPattern = regexp.MustCompile(`(?i)\b(GET|POST|PUT|DELETE|PATCH|OPTIONS|HEAD)\b[ \t]*\|?[ \t]*["']?(?:https?://[^\s/"'` + "`" + `|]+)?(/` + pathChars + `*)`)
	// a lone path, optionally quoted or carrying an origin
	pathOnlyPattern = regexp.MustCompile(`^["']?(?:https?://[^\s/"']+)?(/` + pathChars + `*)["']?$`)
	// a lone method
	methodOnlyPattern = regexp.MustCompile(`(?i)^(GET|POST|PUT|DELETE|PATCH|OPTIONS|HEAD)$`)
	// inline code spans
	codeSpanPattern = regexp.MustCompile("`+([^`]+)`+")
	// ATX heading
	headingPattern = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?[ \t]*$`)
	// table delimiter row
	delimiterRowPattern = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?$`)
)

// cleanPath strips trailing sentence punctuation from a captured path.
func cleanPath(p string) string {
	return strings.TrimRight(p, ".,;:")
}

// pairs returns every method/path pair on a line fragment.
func pairs(text string) []coverage.Mention {
	var out []coverage.Mention
	for _, m := range pairPattern.FindAllStringSubmatch(text, -1) {
		path := cleanPath(m[2])
		if path == "" {
			continue
		}
		out = append(out, coverage.Mention{Method: strings.ToUpper(m[1]), Path: path})
	}
	return out
}

// lonePath returns the path when text is nothing but a path.
func lonePath(text string) (string, bool) {
	m := pathOnlyPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	p := cleanPath(m[1])
	return p, p != ""
}

// loneMethod returns the upper-case method when text is nothing but a method.
func loneMethod(text string) (string, bool) {
	m := methodOnlyPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// fence tracks an open fenced code block.
type fence struct {
	char  byte
	width int
}

// openFence reports whether a line opens a fenced block, returning the
// marker and whatever follows it on the same line.
func openFence(line string) (fence, string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return fence{}, "", false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return fence{}, "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return fence{}, "", false
	}
	return fence{char: c, width: n}, trimmed[n:], true
}

// closes reports whether line closes f.
func (f fence) closes(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < f.width {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != f.char {
			return false
		}
	}
	return true
}

// commentState strips HTML comments across lines.
type commentState struct {
	open bool
}

// strip removes commented text from line and reports what remains.
func (c *commentState) strip(line string) string {
	var b strings.Builder
	rest := line
	for rest != "" {
		if c.open {
			end := strings.Index(rest, "-->")
			if end < 0 {
				return b.String()
			}
			rest = rest[end+3:]
			c.open = false
			continue
		}
		start := strings.Index(rest, "<!--")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+4:]
		c.open = true
	}
	return b.String()
}

// heading returns the text of an ATX heading line.
func heading(line string) (string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	text := strings.TrimSpace(strings.TrimRight(m[2], "#"))
	if m[2] != "" && text == "" {
		text = strings.TrimSpace(m[2])
	}
	return text, true
}

// tableCells splits a pipe table row into trimmed cells. It returns nil for
// lines that are not table rows.
func tableCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	if strings.Count(trimmed, "|") < 2 && !strings.HasPrefix(trimmed, "|") {
		return nil
	}
	if delimiterRowPattern.MatchString(trimmed) {
		return []string{}
	}
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	raw := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		c = strings.Trim(c, "`*_")
		cells = append(cells, strings.TrimSpace(c))
	}
	return cells
}

// rowMentions pairs method cells with path cells in a table row. The second
// result is true when the row holds several methods and several paths that
// cannot be paired by position.
func rowMentions(cells []string) ([]coverage.Mention, bool) {
	var (
		out     []coverage.Mention
		methods []string
		paths   []string
	)
	for _, cell := range cells {
		if ps := pairs(cell); len(ps) > 0 {
			for _, m := range ps {
				m.Shape = coverage.ShapeTable
				out = append(out, m)
			}
			continue
		}
		if m, ok := loneMethod(cell); ok {
			methods = append(methods, m)
			continue
		}
		if p, ok := lonePath(cell); ok {
			paths = append(paths, p)
		}
	}

	switch {
	case len(methods) == 1:
		for _, p := range paths {
			out = append(out, coverage.Mention{Method: methods[0], Path: p, Shape: coverage.ShapeTable})
		}
		if len(paths) == 0 {
			out = append(out, coverage.Mention{Method: methods[0], Shape: coverage.ShapeTable})
		}
		return out, false
	case len(methods) == len(paths):
		for i := range methods {
			out = append(out, coverage.Mention{Method: methods[i], Path: paths[i], Shape: coverage.ShapeTable})
		}
		return out, false
	}

	for _, m := range methods {
		out = append(out, coverage.Mention{Method: m, Shape: coverage.ShapeTable})
	}
	for _, p := range paths {
		out = append(out, coverage.Mention{Path: p, Shape: coverage.ShapeTable})
	}
	return out, len(methods) > 1 && len(paths) > 1
}

// codeMentions reads mentions out of inline code spans and returns the line
// with the spans blanked so prose scanning does not see them twice.
func codeMentions(line string) ([]coverage.Mention, string) {
	var out []coverage.Mention
	for _, m := range codeSpanPattern.FindAllStringSubmatch(line, -1) {
		span := m[1]
		if ps := pairs(span); len(ps) > 0 {
			for _, p := range ps {
				p.Shape = coverage.ShapeInline
				out = append(out, p)
			}
			continue
		}
		if p, ok := lonePath(span); ok {
			out = append(out, coverage.Mention{Path: p, Shape: coverage.ShapeInline})
			continue
		}
		if method, ok := loneMethod(span); ok {
			out = append(out, coverage.Mention{Method: method, Shape: coverage.ShapeInline})
		}
	}
	rest := codeSpanPattern.ReplaceAllStringFunc(line, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
	return out, rest
}

// fencedMentions reads a line inside a fenced block.
func fencedMentions(line string) []coverage.Mention {
	ps := pairs(line)
	if len(ps) > 0 {
		for i := range ps {
			ps[i].Shape = coverage.ShapeFenced
		}
		return ps
	}
	if p, ok := lonePath(line); ok {
		return []coverage.Mention{{Path: p, Shape: coverage.ShapeFenced}}
	}
	return nil
}

// proseMentions reads bare method/path pairs from ordinary text.
func proseMentions(line string) []coverage.Mention {
	ps := pairs(line)
	for i := range ps {
		ps[i].Shape = coverage.ShapeBare
	}
	return ps
}
