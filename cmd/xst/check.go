package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"xst/internal/manifest"
	"xst/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check <manifest>...",
	Short: "Verify that manifests define cleanly",
	Long:  `check builds every manifest in its own store, in parallel, and reports layout errors and leaked instance storage`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	quiet := boolFlag(cmd, "quiet")

	results := make([]error, len(args))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			results[i] = checkManifest(path)
			return nil
		})
	}
	// Errors are collected per manifest, never returned from the group.
	_ = g.Wait()

	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed, color.Bold)
	out := cmd.OutOrStdout()

	failed := 0
	for i, path := range args {
		if results[i] != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", failColor.Sprint("FAIL"), path, results[i])
			continue
		}
		if !quiet {
			fmt.Fprintf(out, "%s   %s\n", okColor.Sprint("ok"), path)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d manifests failed", failed, len(args))
	}
	return nil
}

func checkManifest(path string) error {
	man, err := manifest.Load(path)
	if err != nil {
		return err
	}
	s := store.New()
	if _, err := man.Apply(s); err != nil {
		return err
	}
	return s.LeakCheck()
}
