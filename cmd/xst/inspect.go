package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"xst/internal/cache"
	"xst/internal/manifest"
	"xst/internal/observ"
	"xst/internal/store"
	"xst/internal/types"
)

var inspectNoCache bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectNoCache, "no-cache", false, "ignore and do not update the layout cache")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <manifest>",
	Short: "Show the computed layouts of a manifest's types",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	quiet := boolFlag(cmd, "quiet")
	timings := boolFlag(cmd, "timings")

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	clock := observ.NewClock()
	out := cmd.OutOrStdout()

	stop := clock.Start(observ.PhaseLoad)
	man, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	stop(man.Config.Manifest.Name)

	var dc *cache.DiskCache
	digest := cache.HashSource(man.Source)
	if !inspectNoCache {
		dc, err = cache.Open("xst")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache unavailable: %v\n", err)
			dc = nil
		}
	}
	if dc != nil {
		var payload cache.Payload
		hit, err := dc.Get(digest, &payload)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache read failed: %v\n", err)
		} else if hit {
			stop = clock.Start(observ.PhaseRender)
			renderCached(out, &payload, quiet)
			stop("cached")
			if timings {
				fmt.Fprint(cmd.ErrOrStderr(), clock.Summary())
			}
			return nil
		}
	}

	stop = clock.Start(observ.PhaseDefine)
	s := store.NewWithConfig(store.Config{Tracer: tracer})
	applied, err := man.Apply(s)
	if err != nil {
		return err
	}
	stop(fmt.Sprintf("%d types", len(applied)))

	stop = clock.Start(observ.PhaseRender)
	payload := snapshot(man, applied)
	renderCached(out, payload, quiet)
	stop("")

	if dc != nil {
		if err := dc.Put(digest, payload); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache write failed: %v\n", err)
		}
	}
	if timings {
		fmt.Fprint(cmd.ErrOrStderr(), clock.Summary())
	}
	return nil
}

// snapshot flattens applied definitions into the cacheable layout summary.
func snapshot(man *manifest.Manifest, applied []manifest.Applied) *cache.Payload {
	payload := &cache.Payload{
		Manifest: man.Config.Manifest.Name,
		Types:    make([]cache.TypeLayout, len(applied)),
	}
	for i, a := range applied {
		m := a.Metatype
		role := "struct"
		if a.Type.Tag() == types.TagEnum {
			role = "enum"
		}
		tl := cache.TypeLayout{
			Description: a.Type.Description(),
			Role:        role,
			Size:        m.Size(),
			Align:       m.Align(),
			Stride:      m.Stride(),
			Trivial:     m.Trivial(),
			Offsets:     m.Offsets(),
			Fields:      make([]cache.FieldLayout, m.FieldsLen()),
		}
		for j := 0; j < m.FieldsLen(); j++ {
			f := m.Field(j)
			tl.Fields[j] = cache.FieldLayout{Type: f.Type.Description(), OutOfLine: f.OutOfLine}
		}
		payload.Types[i] = tl
	}
	return payload
}

func renderCached(out io.Writer, payload *cache.Payload, quiet bool) {
	p := message.NewPrinter(language.English)
	nameColor := color.New(color.FgCyan, color.Bold)
	dimColor := color.New(color.Faint)

	if !quiet {
		fmt.Fprintf(out, "manifest %s: %d types\n\n", payload.Manifest, len(payload.Types))
	}
	for _, tl := range payload.Types {
		fmt.Fprintln(out, nameColor.Sprint(tl.Description))
		p.Fprintf(out, "  size %d  align %d  stride %d  trivial %t\n", tl.Size, tl.Align, tl.Stride, tl.Trivial)
		isEnum := tl.Role == "enum"
		for j, f := range tl.Fields {
			placement := "in-line"
			if f.OutOfLine {
				placement = "boxed"
			}
			offset := 0
			switch {
			case isEnum:
				if len(tl.Offsets) > 0 {
					offset = tl.Offsets[0]
				}
			case j < len(tl.Offsets):
				offset = tl.Offsets[j]
			}
			fmt.Fprintf(out, "  %s\n", dimColor.Sprintf("%2d  %-24s %-8s @%d", j, f.Type, placement, offset))
		}
		if isEnum && len(tl.Offsets) == 2 {
			fmt.Fprintf(out, "  %s\n", dimColor.Sprintf("tag u16 @%d", tl.Offsets[1]))
		}
		fmt.Fprintln(out)
	}
}
