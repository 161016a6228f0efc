package main

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/sink"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

// benchSink is a sink that can be reused across runs and checked after one.
type benchSink interface {
	sourcemap.Sink
	Reset()
	Validate(expectLines int) error
}

func newBenchSink(name string) (benchSink, error) {
	switch name {
	case "table":
		return sink.NewTable(), nil
	case "count":
		return sink.NewCounter(), nil
	default:
		return nil, fmt.Errorf("unknown sink %q (want table or count)", name)
	}
}

func (a *app) newBenchCmd() *cobra.Command {
	var (
		mappings string
		delay    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "Time repeated decodes of a mappings buffer",
		Long: `Decode the input once as a warm-up, validate the result, then time
--iterations decodes. Each run prints a "go-<sink>,<run>,<ms>" row. The sink
is reset and the garbage collector run between iterations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options(cmd)

			s, err := newBenchSink(opts.Sink)
			if err != nil {
				return err
			}

			in, err := readInput(cmd, argOrEmpty(args), mappings)
			if err != nil {
				return err
			}
			a.log.Debug("bench", "input", in.name, "bytes", len(in.mappings), "sink", opts.Sink, "iterations", opts.Iterations)

			err = runBench(cmd.OutOrStdout(), in.mappings, s, benchConfig{
				name:        "go-" + opts.Sink,
				iterations:  opts.Iterations,
				expectLines: opts.ExpectLines,
				delay:       delay,
			})
			if err != nil {
				return a.report(cmd, in, err)
			}
			return nil
		},
	}

	cmd.Flags().Int("iterations", 10, "Number of timed decodes")
	cmd.Flags().String("sink", "table", "Receiver for decoded mappings: table, count")
	cmd.Flags().Int("expect-lines", 0, "Fail when the warm-up decode sees a different line count")
	cmd.Flags().DurationVar(&delay, "delay", 10*time.Millisecond, "Pause between iterations")
	cmd.Flags().StringVarP(&mappings, "mappings", "m", "", "Benchmark this mappings string instead of a file")

	return cmd
}

type benchConfig struct {
	name        string
	iterations  int
	expectLines int
	delay       time.Duration
}

func runBench(out io.Writer, mappings []byte, s benchSink, cfg benchConfig) error {
	s.Reset()

	// warm-up
	if err := sourcemap.Decode(mappings, s); err != nil {
		return err
	}
	if err := s.Validate(cfg.expectLines); err != nil {
		return err
	}
	s.Reset()

	for i := 0; i < cfg.iterations; i++ {
		start := time.Now()
		if err := sourcemap.Decode(mappings, s); err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(out, "%s,%d,%.3f\n", cfg.name, i, float64(elapsed.Microseconds())/1000)

		s.Reset()
		runtime.GC()
		if cfg.delay > 0 {
			time.Sleep(cfg.delay)
		}
	}
	return nil
}
