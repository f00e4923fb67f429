// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/doccov/internal/cmd/emoji"
	"github.com/agentstation/doccov/pkg/coverage"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// maxContentWidth caps free-text cells.
const maxContentWidth = 60

// ResultsToTableData converts endpoint verdicts to table format.
func ResultsToTableData(results []coverage.MatchResult) Data {
	headers := []string{"METHOD", "PATH", "STATUS", "CONFIDENCE", "BEST REFERENCE", "SOURCE"}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		confidence, best := "-", "-"
		if m := res.Best(); m != nil {
			confidence = FormatConfidence(m.Confidence)
			best = m.Reference.Location().String()
		}
		rows = append(rows, []string{
			res.Endpoint.Method,
			res.Endpoint.ResolvedPath,
			FormatStatus(res.Status),
			confidence,
			best,
			res.Endpoint.Location.String(),
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignDefault, // METHOD
			AlignDefault, // PATH
			AlignDefault, // STATUS
			AlignRight,   // CONFIDENCE
			AlignDefault, // BEST REFERENCE
			AlignDefault, // SOURCE
		},
	}
}

// SummaryToTableData converts a report summary to a key-value table.
func SummaryToTableData(s coverage.Summary) Data {
	rows := [][]string{
		{"Endpoints", fmt.Sprintf("%d", s.Total)},
		{FormatStatus(coverage.StatusDocumented), fmt.Sprintf("%d", s.Documented)},
		{FormatStatus(coverage.StatusAmbiguous), fmt.Sprintf("%d", s.Ambiguous)},
		{FormatStatus(coverage.StatusUndocumented), fmt.Sprintf("%d", s.Undocumented)},
	}
	if s.Unresolved > 0 {
		rows = append(rows, []string{"Unresolved", fmt.Sprintf("%d", s.Unresolved)})
	}
	rows = append(rows, []string{"Coverage", FormatPercent(s.Coverage)})

	return Data{
		Headers:         []string{"METRIC", "VALUE"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignRight},
	}
}

// EndpointsToTableData converts endpoints to table format.
func EndpointsToTableData(endpoints []*coverage.Endpoint, showDetails bool) Data {
	headers := []string{"METHOD", "PATH", "HANDLER", "ROUTER", "SOURCE"}
	if showDetails {
		headers = append(headers, "FLAGS", "SUMMARY")
	}

	rows := make([][]string, 0, len(endpoints))
	for _, ep := range endpoints {
		path := ep.ResolvedPath
		if !ep.Resolved {
			path = ep.DeclaredPath + " (unresolved)"
		}
		row := []string{
			ep.Method,
			path,
			ep.Handler,
			ep.Router,
			ep.Location.String(),
		}

		if showDetails {
			flags := BuildFlagsString(ep)
			if flags == "" {
				flags = "-"
			}
			summary := ep.Summary
			if summary == "" {
				summary, _, _ = strings.Cut(ep.Docstring, "\n")
			}
			row = append(row, flags, Truncate(summary, maxContentWidth))
		}

		rows = append(rows, row)
	}

	return Data{
		Headers: headers,
		Rows:    rows,
	}
}

// ReferencesToTableData converts documentation references to table format.
func ReferencesToTableData(refs []*coverage.DocReference) Data {
	headers := []string{"LOCATION", "HEADING", "METHODS", "PATHS"}

	rows := make([][]string, 0, len(refs))
	for _, ref := range refs {
		heading := ref.Heading
		if heading == "" {
			heading = "-"
		}
		methods := strings.Join(ref.MentionedMethods, ", ")
		if methods == "" {
			methods = "-"
		}
		paths := strings.Join(ref.MentionedPaths, ", ")
		if paths == "" {
			paths = "-"
		}
		rows = append(rows, []string{
			ref.Location().String(),
			Truncate(heading, maxContentWidth),
			methods,
			Truncate(paths, maxContentWidth),
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
	}
}

// WarningsToTableData converts warnings to table format.
func WarningsToTableData(warnings []coverage.Warning) Data {
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		symbol := emoji.Info
		if w.FromMountGraph() {
			symbol = emoji.Warning
		}
		rows = append(rows, []string{
			symbol + " " + string(w.Kind),
			w.Location.String(),
			w.Message,
		})
	}

	return Data{
		Headers: []string{"KIND", "LOCATION", "MESSAGE"},
		Rows:    rows,
	}
}

// SkipsToTableData converts skipped inputs to table format.
func SkipsToTableData(skips []coverage.Skip) Data {
	rows := make([][]string, 0, len(skips))
	for _, s := range skips {
		loc := s.File
		if s.Line > 0 {
			loc = fmt.Sprintf("%s:%d", s.File, s.Line)
		}
		rows = append(rows, []string{string(s.Kind), loc, s.Reason})
	}

	return Data{
		Headers: []string{"KIND", "FILE", "REASON"},
		Rows:    rows,
	}
}

// FormatStatus returns the status label with its symbol.
func FormatStatus(status coverage.Status) string {
	caser := cases.Title(language.English)
	return statusSymbol(status) + " " + caser.String(string(status))
}

// FormatConfidence formats a confidence score with one decimal.
func FormatConfidence(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// FormatPercent formats a coverage percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// BuildFlagsString creates a comma-separated list of endpoint markers.
func BuildFlagsString(ep *coverage.Endpoint) string {
	var flags []string
	if ep.IsAsync {
		flags = append(flags, "async")
	}
	if ep.IsDeprecated {
		flags = append(flags, "deprecated")
	}
	if ep.HasDocstring() {
		flags = append(flags, "docstring")
	}
	if ep.ResponseModel != "" {
		flags = append(flags, "model="+ep.ResponseModel)
	}
	if len(ep.Tags) > 0 {
		flags = append(flags, "tags="+strings.Join(ep.Tags, "|"))
	}
	return strings.Join(flags, ", ")
}

// Truncate shortens s to at most width runes.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// statusSymbol returns the symbol for a coverage status.
func statusSymbol(status coverage.Status) string {
	switch status {
	case coverage.StatusDocumented:
		return emoji.Success
	case coverage.StatusAmbiguous:
		return emoji.Warning
	case coverage.StatusUndocumented:
		return emoji.Error
	default:
		return emoji.Unknown
	}
}
