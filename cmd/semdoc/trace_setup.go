package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"semdoc/internal/trace"
)

// traceFlags mirrors the persistent --trace* flags.
type traceFlags struct {
	output   string
	level    string
	mode     string
	format   string
	ringSize int
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	flags := cmd.Root().PersistentFlags()
	var tf traceFlags
	var err error
	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"trace", &tf.output},
		{"trace-level", &tf.level},
		{"trace-mode", &tf.mode},
		{"trace-format", &tf.format},
	} {
		if *s.dst, err = flags.GetString(s.name); err != nil {
			return tf, fmt.Errorf("failed to get %s flag: %w", s.name, err)
		}
	}
	if tf.ringSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return tf, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	return tf, nil
}

// config turns the flags into a tracer config. Naming an output without a
// level means phase tracing.
func (tf traceFlags) config() (trace.Config, error) {
	level, err := trace.ParseLevel(tf.level)
	if err != nil {
		return trace.Config{}, err
	}
	if level == trace.LevelOff && tf.output != "" {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(tf.mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(tf.format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
	}, nil
}

// setupTracing attaches the tracer chosen by the flags to the command
// context. The cleanup dumps a ring tracer to stderr, then flushes and closes;
// calling it twice is harmless.
func setupTracing(cmd *cobra.Command) (func(), error) {
	tf, err := readTraceFlags(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := tf.config()
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	if !tracer.Enabled() {
		return func() {}, nil
	}

	stderr := cmd.ErrOrStderr()
	done := false
	return func() {
		if done {
			return
		}
		done = true
		closeTracer(tracer, stderr)
	}, nil
}

func closeTracer(tracer trace.Tracer, stderr io.Writer) {
	if ring, ok := tracer.(*trace.RingTracer); ok {
		_ = ring.Dump(stderr, trace.FormatText)
	}
	if err := tracer.Flush(); err != nil {
		fmt.Fprintf(stderr, "trace: flush error: %v\n", err)
	}
	if err := tracer.Close(); err != nil {
		fmt.Fprintf(stderr, "trace: close error: %v\n", err)
	}
}
