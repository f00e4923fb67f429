// Package refs provides the refs command.
package refs

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/doccov/internal/appcontext"
	"github.com/agentstation/doccov/internal/cmd/globals"
	"github.com/agentstation/doccov/internal/cmd/output"
)

// NewCommand creates the refs command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var roots *globals.RootFlags

	cmd := &cobra.Command{
		Use:     "refs",
		GroupID: "inspect",
		Aliases: []string{"references"},
		Short:   "List method and path mentions found in the documentation",
		Long: `Refs runs the reference extractor only, and lists one entry per
markdown section that mentions an HTTP method or an API path.`,
		Example: `  doccov refs --docs ./docs   # List references
  doccov refs -o json         # Include every mention and its shape`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			analyzer, err := app.Analyzer()
			if err != nil {
				return err
			}

			_, docs := roots.Resolve(app.Roots())
			ex, err := analyzer.References(cmd.Context(), docs)
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Int("references", len(ex.References)).
				Int("files", ex.Files).
				Int("skipped", len(ex.Skipped)).
				Msg("Listed references")
			return output.FormatReferences(cmd.OutOrStdout(), ex.References, ex.Warnings,
				output.DetectFormat(string(format)))
		},
	}

	roots = globals.AddRootFlags(cmd, false, true)

	return cmd
}
