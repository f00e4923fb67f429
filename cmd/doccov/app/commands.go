package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/doccov/cmd/doccov/cmd/endpoints"
	"github.com/agentstation/doccov/cmd/doccov/cmd/refs"
	"github.com/agentstation/doccov/cmd/doccov/cmd/scan"
	"github.com/agentstation/doccov/internal/cmd/output"
)

// CreateScanCommand creates the scan command with app dependencies.
func (a *App) CreateScanCommand() *cobra.Command {
	return scan.NewCommand(a)
}

// CreateEndpointsCommand creates the endpoints command with app dependencies.
func (a *App) CreateEndpointsCommand() *cobra.Command {
	return endpoints.NewCommand(a)
}

// CreateRefsCommand creates the refs command with app dependencies.
func (a *App) CreateRefsCommand() *cobra.Command {
	return refs.NewCommand(a)
}

// versionInfo is the structured form of the version command output.
type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(a.config.Format)
			if err != nil {
				return err
			}
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.FormatAny(cmd.OutOrStdout(), versionInfo{
					Version:   a.version,
					Commit:    a.commit,
					Date:      a.date,
					BuiltBy:   a.builtBy,
					GoVersion: runtime.Version(),
					Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				}, format)
			}

			cmd.Printf("doccov %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
			return nil
		},
	}
}
