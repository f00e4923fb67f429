// Package globals provides shared flag structures and utilities for CLI commands.
package globals

import "github.com/spf13/cobra"

// RootFlags holds the directories a command scans.
type RootFlags struct {
	Source string
	Docs   string
}

// AddRootFlags adds --source and/or --docs to a command. Defaults come from
// the loaded configuration; an empty default is left unset.
func AddRootFlags(cmd *cobra.Command, source, docs bool) *RootFlags {
	flags := &RootFlags{}

	if source {
		cmd.Flags().StringVarP(&flags.Source, "source", "s", "",
			"Python source root (default from config or current directory)")
	}
	if docs {
		cmd.Flags().StringVarP(&flags.Docs, "docs", "d", "",
			"Markdown documentation root (default from config or the source root)")
	}

	return flags
}

// Resolve fills unset roots from the configured ones. An unset docs root
// falls back to the source root so a single repository can be scanned
// with no flags.
func (f *RootFlags) Resolve(source, docs string) (string, string) {
	s, d := f.Source, f.Docs
	if s == "" {
		s = source
	}
	if d == "" {
		d = docs
	}
	if s == "" {
		s = "."
	}
	if d == "" {
		d = s
	}
	return s, d
}
