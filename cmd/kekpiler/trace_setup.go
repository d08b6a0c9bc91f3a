package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"kekpiler/internal/trace"
)

var (
	traceCleanup func()
	traceRing    *trace.RingTracer
)

type traceFlags struct {
	output   string
	level    trace.Level
	mode     trace.StorageMode
	ringSize int
}

func readTraceFlags(flags *pflag.FlagSet) (traceFlags, error) {
	output, errOut := flags.GetString("trace")
	level, errLevel := flags.GetString("trace-level")
	mode, errMode := flags.GetString("trace-mode")
	ringSize, errRing := flags.GetInt("trace-ring-size")
	if err := errors.Join(errOut, errLevel, errMode, errRing); err != nil {
		return traceFlags{}, err
	}
	tf := traceFlags{output: output, ringSize: ringSize}

	parsed, err := trace.ParseLevel(level)
	if err != nil {
		return tf, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if parsed == trace.LevelOff && tf.output != "" {
		parsed = trace.LevelPhase
	}
	tf.level = parsed
	if tf.level == trace.LevelOff {
		return tf, nil
	}
	if tf.mode, err = trace.ParseMode(mode); err != nil {
		return tf, fmt.Errorf("invalid trace mode: %w", err)
	}
	// уровень error пишет только в кольцо
	if tf.level == trace.LevelError {
		tf.mode = trace.ModeRing
	}
	return tf, nil
}

// setupTracing attaches the tracer selected by the --trace flags to the
// command context and returns the function that flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()
	tf, err := readTraceFlags(root.PersistentFlags())
	if err != nil {
		return nil, err
	}
	if tf.level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      tf.level,
		Mode:       tf.mode,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	traceRing = trace.RingOf(tracer)

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpTraceRing writes the events kept by a ring tracer, if one is active.
func dumpTraceRing(w io.Writer) {
	if traceRing == nil {
		return
	}
	fmt.Fprintln(w, "== trace ==")
	if err := traceRing.Dump(w, trace.FormatText, ""); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

func runTraceCleanup() {
	if traceCleanup == nil {
		return
	}
	traceCleanup()
	traceCleanup = nil
}
