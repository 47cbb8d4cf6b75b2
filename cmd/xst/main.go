package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xst/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "xst",
	Short: "Runtime type store toolchain",
	Long:  `xst computes physical layouts for TOML-described type systems and inspects instances of the stored types`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Colored()

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "trace output path (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|store|value)")
	rootCmd.PersistentFlags().Int("trace-ring", 0, "keep the last N store events and dump them on exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
