package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"xst/internal/version"
)

var versionJSON bool

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "emit the fingerprint as JSON")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the xst build fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Current()
		out := cmd.OutOrStdout()

		if versionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Version   string `json:"version"`
				Commit    string `json:"commit,omitempty"`
				BuildDate string `json:"build_date,omitempty"`
				Dirty     bool   `json:"dirty,omitempty"`
			}{info.Number, info.Commit, info.BuildDate, info.Dirty})
		}

		fmt.Fprintf(out, "xst %s\n", version.Colored())
		if info.Commit != "" {
			commit := info.Commit
			if len(commit) > 12 {
				commit = commit[:12]
			}
			if info.Dirty {
				commit += " (dirty)"
			}
			fmt.Fprintf(out, "  commit %s\n", commit)
		}
		if info.BuildDate != "" {
			fmt.Fprintf(out, "  built  %s\n", info.BuildDate)
		}
		return nil
	},
}
