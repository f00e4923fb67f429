package docrefs

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/errors"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode returns src as text. Binary content and invalid UTF-8 are rejected
// with a parse error.
func Decode(src []byte, file string) (string, error) {
	src = bytes.TrimPrefix(src, bom)
	sniff := src
	if len(sniff) > constants.BinarySniffLength {
		sniff = sniff[:constants.BinarySniffLength]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return "", errors.NewParseError("markdown", file, "binary content", nil)
	}
	if !utf8.Valid(src) {
		return "", errors.NewParseError("markdown", file, "invalid UTF-8", nil)
	}
	return string(src), nil
}

// scanner carries per-file state while walking lines.
type scanner struct {
	file     string
	refs     []*coverage.DocReference
	warnings []coverage.Warning
	current  *coverage.DocReference
	heading  string
	comments commentState
	fence    *fence
}

// ParseMarkdown extracts references from one markdown document. Mentions
// under the same heading merge into a single reference; mentions before the
// first heading form their own section. References are returned in line
// order and none of them is empty.
func ParseMarkdown(content, file string) ([]*coverage.DocReference, []coverage.Warning) {
	s := &scanner{file: file}
	content = strings.TrimPrefix(content, "\ufeff")
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		s.line(i+1, raw)
	}
	s.flush()
	return s.refs, s.warnings
}

func (s *scanner) line(n int, raw string) {
	if s.fence != nil {
		if s.fence.closes(raw) {
			s.fence = nil
			return
		}
		text := s.comments.strip(raw)
		if strings.TrimSpace(text) != "" {
			s.record(n, text, fencedMentions(text))
		}
		return
	}

	text := s.comments.strip(raw)
	if strings.TrimSpace(text) == "" {
		return
	}

	if f, rest, ok := openFence(text); ok {
		marker := strings.Repeat(string(f.char), f.width)
		if body, _, closed := strings.Cut(rest, marker); closed {
			s.record(n, text, fencedMentions(body))
			return
		}
		s.fence = &f
		return
	}

	if h, ok := heading(text); ok {
		s.flush()
		s.heading = h
		return
	}

	if cells := tableCells(text); cells != nil {
		if len(cells) == 0 {
			return
		}
		mentions, ambiguous := rowMentions(cells)
		if ambiguous {
			s.warnings = append(s.warnings, coverage.Warning{
				Kind:     coverage.WarnAmbiguousMentions,
				Message:  fmt.Sprintf("table row lists several methods and paths that cannot be paired: %s", strings.TrimSpace(text)),
				Location: coverage.Location{File: s.file, Line: n},
			})
		}
		s.record(n, text, mentions)
		return
	}

	spans, rest := codeMentions(text)
	s.record(n, text, append(spans, proseMentions(rest)...))
}

// record adds mentions found on line n to the open section.
func (s *scanner) record(n int, text string, mentions []coverage.Mention) {
	if len(mentions) == 0 {
		return
	}
	if s.current == nil {
		s.current = &coverage.DocReference{File: s.file, Heading: s.heading}
	}
	for _, m := range mentions {
		m.Line = n
		s.current.Add(m, text)
	}
}

// flush closes the open section.
func (s *scanner) flush() {
	if s.current != nil && !s.current.Empty() {
		s.refs = append(s.refs, s.current)
	}
	s.current = nil
}
