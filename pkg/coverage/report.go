package coverage

import (
	"fmt"
	"sort"
	"time"
)

// Status is the coverage verdict for an endpoint.
type Status string

// Coverage statuses.
const (
	StatusDocumented   Status = "documented"
	StatusAmbiguous    Status = "ambiguous"
	StatusUndocumented Status = "undocumented"
)

// Match links an endpoint to a reference with a confidence score.
type Match struct {
	Reference  *DocReference `json:"reference" yaml:"reference"`
	Confidence float64       `json:"confidence" yaml:"confidence"`
	Rule       string        `json:"rule" yaml:"rule"` // Name of the scoring rule that fired
}

// MatchResult is the verdict for one endpoint.
type MatchResult struct {
	Endpoint *Endpoint `json:"endpoint" yaml:"endpoint"`
	Matches  []Match   `json:"matches" yaml:"matches"`
	Status   Status    `json:"status" yaml:"status"`
}

// Best returns the highest scoring match, or nil.
func (m *MatchResult) Best() *Match {
	if len(m.Matches) == 0 {
		return nil
	}
	return &m.Matches[0]
}

// SortMatches orders matches by confidence desc, file asc, line asc.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Reference.File != b.Reference.File {
			return a.Reference.File < b.Reference.File
		}
		return a.Reference.Line < b.Reference.Line
	})
}

// WarningKind classifies structural problems that may hide endpoints.
type WarningKind string

// Structural warning kinds.
const (
	WarnMountCycle        WarningKind = "mount-cycle"
	WarnMountTarget       WarningKind = "mount-target-unknown"
	WarnMultipleMounts    WarningKind = "multiple-mounts"
	WarnAmbiguousMentions WarningKind = "ambiguous-reference"
)

// Warning is a structural problem found while building the report.
type Warning struct {
	Kind     WarningKind `json:"kind" yaml:"kind"`
	Message  string      `json:"message" yaml:"message"`
	Location Location    `json:"location" yaml:"location"`
	Routers  []string    `json:"routers,omitempty" yaml:"routers,omitempty"`
}

// FromMountGraph reports whether the warning comes from prefix resolution,
// meaning endpoints may be missing or misplaced. The remaining kind,
// ambiguous-reference, means a documentation line could not be scored.
func (w Warning) FromMountGraph() bool {
	return w.Kind != WarnAmbiguousMentions
}

// SkipKind classifies why a file or construct was not processed.
type SkipKind string

// Skip kinds.
const (
	SkipUnreadable SkipKind = "unreadable"
	SkipEncoding   SkipKind = "encoding"
	SkipSyntax     SkipKind = "syntax"
	SkipTooLarge   SkipKind = "too-large"
	SkipDynamic    SkipKind = "dynamic-path"
)

// Skip notes a file or construct that was passed over.
type Skip struct {
	Kind   SkipKind `json:"kind" yaml:"kind"`
	File   string   `json:"file" yaml:"file"`
	Line   int      `json:"line,omitempty" yaml:"line,omitempty"`
	Reason string   `json:"reason" yaml:"reason"`
}

// Summary tallies endpoint statuses.
type Summary struct {
	Total        int     `json:"total" yaml:"total"`
	Documented   int     `json:"documented" yaml:"documented"`
	Ambiguous    int     `json:"ambiguous" yaml:"ambiguous"`
	Undocumented int     `json:"undocumented" yaml:"undocumented"`
	Unresolved   int     `json:"unresolved" yaml:"unresolved"`
	Coverage     float64 `json:"coverage" yaml:"coverage"` // Documented percentage of Total
}

// Metadata describes the run that produced a report.
type Metadata struct {
	SourceRoot    string        `json:"source_root" yaml:"source_root"`
	DocsRoot      string        `json:"docs_root" yaml:"docs_root"`
	StartedAt     time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt    time.Time     `json:"finished_at" yaml:"finished_at"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
	SourceFiles   int           `json:"source_files" yaml:"source_files"`
	DocFiles      int           `json:"doc_files" yaml:"doc_files"`
	MinConfidence float64       `json:"min_confidence" yaml:"min_confidence"`
}

// Report is the outcome of one run.
type Report struct {
	Endpoints  []*Endpoint     `json:"endpoints" yaml:"endpoints"`
	Unresolved []*Endpoint     `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Routers    []*Router       `json:"routers" yaml:"routers"`
	References []*DocReference `json:"references" yaml:"references"`
	Results    []MatchResult   `json:"results" yaml:"results"`
	Warnings   []Warning       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Skipped    []Skip          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Summary    Summary         `json:"summary" yaml:"summary"`
	Metadata   Metadata        `json:"metadata" yaml:"metadata"`
}

// NewReport creates a report stamped with the start time.
func NewReport(sourceRoot, docsRoot string) *Report {
	return &Report{
		Endpoints:  []*Endpoint{},
		Routers:    []*Router{},
		References: []*DocReference{},
		Results:    []MatchResult{},
		Metadata: Metadata{
			SourceRoot: sourceRoot,
			DocsRoot:   docsRoot,
			StartedAt:  time.Now().UTC(),
		},
	}
}

// Finalize tallies the summary and stamps the end time.
func (r *Report) Finalize() {
	r.Summary = Tally(r.Results)
	r.Summary.Unresolved = len(r.Unresolved)
	r.Metadata.FinishedAt = time.Now().UTC()
	r.Metadata.Duration = r.Metadata.FinishedAt.Sub(r.Metadata.StartedAt)
}

// Tally counts statuses over results.
func Tally(results []MatchResult) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		switch res.Status {
		case StatusDocumented:
			s.Documented++
		case StatusAmbiguous:
			s.Ambiguous++
		default:
			s.Undocumented++
		}
	}
	if s.Total > 0 {
		s.Coverage = float64(s.Documented) / float64(s.Total) * 100
	}
	return s
}

// HasStructuralWarnings reports whether coverage numbers may be incomplete:
// any warning of either kind, or an endpoint left unresolved.
func (r *Report) HasStructuralWarnings() bool {
	return len(r.Warnings) > 0 || len(r.Unresolved) > 0
}

// ByStatus returns the results with the given status, in report order.
func (r *Report) ByStatus(status Status) []MatchResult {
	var out []MatchResult
	for _, res := range r.Results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

// String returns a one-line summary.
func (r *Report) String() string {
	s := r.Summary
	msg := fmt.Sprintf("%d endpoints: %d documented, %d ambiguous, %d undocumented (%.1f%% coverage)",
		s.Total, s.Documented, s.Ambiguous, s.Undocumented, s.Coverage)
	if r.HasStructuralWarnings() {
		msg += "; coverage numbers may be incomplete"
	}
	return msg
}
