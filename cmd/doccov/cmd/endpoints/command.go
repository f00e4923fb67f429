// Package endpoints provides the endpoints command.
package endpoints

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/doccov/internal/appcontext"
	"github.com/agentstation/doccov/internal/cmd/globals"
	"github.com/agentstation/doccov/internal/cmd/output"
)

// NewCommand creates the endpoints command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		roots   *globals.RootFlags
		details bool
	)

	cmd := &cobra.Command{
		Use:     "endpoints",
		GroupID: "inspect",
		Aliases: []string{"routes"},
		Short:   "List endpoints declared in the Python source",
		Long: `Endpoints runs the route extractor and prefix resolver only, and lists
every endpoint with its fully resolved path. Endpoints reachable only
through a mount cycle are listed as unresolved.`,
		Example: `  doccov endpoints --source ./app     # List resolved endpoints
  doccov endpoints --details -o yaml   # Include handler metadata`,
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

			source, _ := roots.Resolve(app.Roots())
			set, err := analyzer.Endpoints(cmd.Context(), source)
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Int("endpoints", len(set.Endpoints)).
				Int("routers", len(set.Routers)).
				Int("files", set.Files).
				Msg("Listed endpoints")
			return output.FormatEndpoints(cmd.OutOrStdout(), set.Endpoints, set.Unresolved, set.Warnings, details,
				output.DetectFormat(string(format)))
		},
	}

	roots = globals.AddRootFlags(cmd, true, false)
	cmd.Flags().BoolVar(&details, "details", false, "Show handler flags and summaries")

	return cmd
}
