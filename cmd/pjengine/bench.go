package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pipelined.dev/engine"
	"pipelined.dev/engine/graph"
	"pipelined.dev/engine/metric"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/signal"
)

type benchCommand struct {
	tracks  int
	periods int
	workers int
}

func (*benchCommand) Name() string {
	return "bench"
}

func (*benchCommand) Help() string {
	return "Measure processing time of a mixing graph"
}

func (cmd *benchCommand) Register(fs *pflag.FlagSet) {
	fs.IntVar(&cmd.tracks, "tracks", 32, "number of mixed tracks")
	fs.IntVar(&cmd.periods, "periods", 1000, "number of processed periods")
	fs.IntVar(&cmd.workers, "workers", -1, "number of workers, negative keeps config")
}

// tracks returns graph where every track is a generator followed by a
// strip of smoothed gains mixed into a stereo output.
func (cmd *benchCommand) graph(out *signal.Interleaved) *graph.Graph {
	g := graph.Graph{}
	output := processor.NewOutput(writers(out)...)
	for t := 0; t < cmd.tracks; t++ {
		phase := float32(t)
		source := processor.NewInput(func(buf []float32) {
			for i := range buf {
				buf[i] = phase
				phase += 1e-3
				if phase > 1 {
					phase = -1
				}
			}
		})
		s := newStrip()
		s.set(float32(t%3-1), 1/float32(cmd.tracks))
		track := s.graph(source, processor.NewOutput(nil, nil))
		for _, w := range track.Audio.All() {
			if w.Dst.Proc.TypeName() == "output" {
				w.Dst.Proc = output
			}
			g.Audio.Insert(w.Src, w.Dst)
		}
		for _, w := range track.Event.All() {
			g.Event.Insert(w.Src, w.Dst)
		}
	}
	return &g
}

func (cmd *benchCommand) Run(c *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	var options []engine.Option
	if cmd.workers >= 0 {
		options = append(options, engine.WithWorkers(cmd.workers))
	}
	options = append(options, engine.WithMetric())
	e, err := newEngine(cfg, logger, options...)
	if err != nil {
		return err
	}
	defer e.Close()

	out := signal.NewInterleaved(2, cfg.PeriodSize)
	if err := e.Rebuild(c.Context(), cmd.graph(out)); err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < cmd.periods; i++ {
		e.Process(cfg.PeriodSize)
	}
	elapsed := time.Since(start)

	w := c.OutOrStdout()
	fmt.Fprintf(w, "tracks: %d tasks: %d periods: %d\n", cmd.tracks, e.Tasks(), cmd.periods)
	fmt.Fprintf(w, "per period: %v of %v\n", elapsed/time.Duration(max(cmd.periods, 1)), signal.DurationOf(cfg.SampleRate, int64(cfg.PeriodSize)))
	counters := metric.Get(e)
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, counters[name])
	}
	return nil
}
