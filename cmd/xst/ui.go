package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"xst/internal/manifest"
	"xst/internal/store"
	"xst/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui <manifest>",
	Short: "Browse a manifest's types interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("ui needs a terminal; use inspect for plain output")
	}

	man, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	s := store.New()
	applied, err := man.Apply(s)
	if err != nil {
		return err
	}

	entries := make([]ui.Entry, len(applied))
	for i, a := range applied {
		entries[i] = ui.Entry{Type: a.Type, Metatype: a.Metatype}
	}

	model := ui.NewBrowserModel(man.Config.Manifest.Name, entries)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
