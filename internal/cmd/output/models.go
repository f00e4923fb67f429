package output

import (
	"fmt"
	"io"
	"time"

	"github.com/agentstation/doccov/internal/cmd/table"
	"github.com/agentstation/doccov/pkg/coverage"
)

// IncompleteNote is appended to human-readable reports with structural warnings.
const IncompleteNote = "Coverage numbers may be incomplete: see the warnings for endpoints or documentation lines that could not be placed."

// ReportDocument lays a coverage report out as titled tables.
func ReportDocument(report *coverage.Report) Document {
	doc := Document{
		Title: "API documentation coverage",
		Sections: []Section{
			{Title: "Summary", Data: table.SummaryToTableData(report.Summary)},
			{Title: "Endpoints", Data: table.ResultsToTableData(report.Results)},
			{Title: "Unresolved endpoints", Data: table.EndpointsToTableData(report.Unresolved, false)},
			{Title: "Warnings", Data: table.WarningsToTableData(report.Warnings)},
			{Title: "Skipped", Data: table.SkipsToTableData(report.Skipped)},
		},
	}
	doc.Notes = append(doc.Notes, fmt.Sprintf("Scanned %d source files under %s and %d markdown files under %s in %s.",
		report.Metadata.SourceFiles, report.Metadata.SourceRoot,
		report.Metadata.DocFiles, report.Metadata.DocsRoot,
		report.Metadata.Duration.Round(time.Millisecond)))
	if report.HasStructuralWarnings() {
		doc.Notes = append(doc.Notes, IncompleteNote)
	}
	return doc
}

// FormatReport renders a report. Table and markdown output get the tabular
// layout, other formats the full report structure.
func FormatReport(w io.Writer, report *coverage.Report, format Format) error {
	formatter := NewFormatter(format)

	var outputData any
	switch format {
	case FormatTable, FormatMarkdown, "":
		outputData = ReportDocument(report)
	default:
		outputData = report
	}

	return formatter.Format(w, outputData)
}

// FormatEndpoints renders resolved and unresolved endpoints.
func FormatEndpoints(w io.Writer, endpoints, unresolved []*coverage.Endpoint, warnings []coverage.Warning, showDetails bool, format Format) error {
	formatter := NewFormatter(format)

	var outputData any
	switch format {
	case FormatTable, FormatMarkdown, "":
		all := append(append([]*coverage.Endpoint{}, endpoints...), unresolved...)
		doc := Document{Sections: []Section{
			{Data: table.EndpointsToTableData(all, showDetails)},
			{Title: "Warnings", Data: table.WarningsToTableData(warnings)},
		}}
		if len(unresolved) > 0 {
			doc.Notes = append(doc.Notes, IncompleteNote)
		}
		outputData = doc
	default:
		outputData = struct {
			Endpoints  []*coverage.Endpoint `json:"endpoints" yaml:"endpoints"`
			Unresolved []*coverage.Endpoint `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
			Warnings   []coverage.Warning   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
		}{endpoints, unresolved, warnings}
	}

	return formatter.Format(w, outputData)
}

// FormatReferences renders documentation references.
func FormatReferences(w io.Writer, refs []*coverage.DocReference, warnings []coverage.Warning, format Format) error {
	formatter := NewFormatter(format)

	var outputData any
	switch format {
	case FormatTable, FormatMarkdown, "":
		outputData = Document{Sections: []Section{
			{Data: table.ReferencesToTableData(refs)},
			{Title: "Warnings", Data: table.WarningsToTableData(warnings)},
		}}
	default:
		outputData = refs
	}

	return formatter.Format(w, outputData)
}

// FormatAny formats any data type for output.
func FormatAny(w io.Writer, data any, format Format) error {
	return NewFormatter(format).Format(w, data)
}
