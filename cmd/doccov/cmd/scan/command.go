// Package scan provides the scan command, which runs the full coverage
// pipeline and renders the report.
package scan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/doccov"
	"github.com/agentstation/doccov/internal/appcontext"
	"github.com/agentstation/doccov/internal/cmd/globals"
	"github.com/agentstation/doccov/internal/cmd/output"
	"github.com/agentstation/doccov/pkg/errors"
)

// Flags holds scan-specific flags.
type Flags struct {
	MinConfidence float64
	FailUnder     float64
}

// NewCommand creates the scan command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}
	var roots *globals.RootFlags

	cmd := &cobra.Command{
		Use:     "scan",
		GroupID: "core",
		Short:   "Measure documentation coverage of a FastAPI application",
		Long: `Scan extracts every route declared in the Python source tree, resolves
router prefixes, extracts method and path mentions from the markdown
documentation, and reports which endpoints are documented.

Each endpoint is reported as documented, ambiguous (matched only below
--min-confidence) or undocumented.`,
		Example: `  doccov scan                                # Scan the current directory
  doccov scan --source ./app --docs ./docs   # Separate source and docs roots
  doccov scan --min-confidence 1.0           # Only structured mentions count
  doccov scan --fail-under 80 -o markdown    # CI gate with a markdown report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			if flags.FailUnder < 0 || flags.FailUnder > 100 {
				return errors.NewValidationError("fail-under", flags.FailUnder, "must be between 0 and 100")
			}

			var opts []doccov.Option
			if cmd.Flags().Changed("min-confidence") {
				opts = append(opts, doccov.WithMinConfidence(flags.MinConfidence))
			}
			analyzer, err := analyzerFor(app, opts)
			if err != nil {
				return err
			}

			source, docs := roots.Resolve(app.Roots())
			report, err := analyzer.Analyze(cmd.Context(), source, docs)
			if err != nil {
				return err
			}

			if err := output.FormatReport(cmd.OutOrStdout(), report, output.DetectFormat(string(format))); err != nil {
				return err
			}

			if flags.FailUnder > 0 && report.Summary.Coverage < flags.FailUnder {
				return fmt.Errorf("%w: %.1f%% is under --fail-under %.1f%%",
					errors.ErrBelowThreshold, report.Summary.Coverage, flags.FailUnder)
			}
			return nil
		},
	}

	roots = globals.AddRootFlags(cmd, true, true)
	cmd.Flags().Float64Var(&flags.MinConfidence, "min-confidence", 0,
		"Confidence at or above which an endpoint counts as documented (default from config, 0.7)")
	cmd.Flags().Float64Var(&flags.FailUnder, "fail-under", 0,
		"Exit non-zero when coverage percentage is under this value")

	return cmd
}

func analyzerFor(app appcontext.Interface, opts []doccov.Option) (doccov.Analyzer, error) {
	if len(opts) == 0 {
		return app.Analyzer()
	}
	return app.AnalyzerWithOptions(opts...)
}
