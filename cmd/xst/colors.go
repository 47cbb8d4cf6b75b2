package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// applyColorMode reads the --color flag and configures colored output
// process-wide. "auto" enables color only on a terminal.
func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on", "always":
		color.NoColor = false
	case "off", "never":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected: auto|on|off)", mode)
	}
	return nil
}

func boolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Root().PersistentFlags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}
