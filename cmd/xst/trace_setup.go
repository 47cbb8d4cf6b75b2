package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"xst/internal/trace"
)

// setupTracing builds the tracer from the trace flags: --trace adds a
// stream sink, --trace-ring adds a ring sink whose tail is dumped to
// stderr when the command finishes. It returns the tracer, a cleanup
// function, and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// Asking for a sink alone implies tracing at the most verbose level.
	if level == trace.LevelOff && (traceOutput != "" || ringSize > 0) {
		level = trace.LevelValue
	}
	if level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}

	var sinks []trace.Tracer
	if traceOutput != "" {
		w := io.Writer(os.Stderr)
		if traceOutput != "-" {
			f, err := os.Create(traceOutput)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w = f
		}
		sinks = append(sinks, trace.NewStreamTracer(w, level))
	}

	var ring *trace.RingTracer
	if ringSize > 0 {
		ring = trace.NewRingTracer(ringSize, level)
		sinks = append(sinks, ring)
	}

	tracer := trace.New(level, sinks...)

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if ring != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: last %d store events:\n", len(ring.Snapshot()))
			if err := ring.Dump(cmd.ErrOrStderr()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}

	return tracer, cleanup, nil
}
