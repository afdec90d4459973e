package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/signal"
	"pipelined.dev/engine/thread"
	"pipelined.dev/engine/wav"
)

type renderCommand struct {
	in     string
	out    string
	pan    float32
	volume float32
}

func (*renderCommand) Name() string {
	return "render"
}

func (*renderCommand) Help() string {
	return "Render wav file through the channel strip"
}

func (cmd *renderCommand) Register(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.in, "in", "", "input wav file (required)")
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.Float32Var(&cmd.pan, "pan", 0, "pan position in [-1, 1]")
	fs.Float32Var(&cmd.volume, "volume", 1, "volume gain")
}

func (cmd *renderCommand) validate() error {
	var errs []error
	if cmd.in == "" {
		errs = append(errs, errors.New("missing --in required flag"))
	}
	if cmd.out == "" {
		errs = append(errs, errors.New("missing --out required flag"))
	}
	return errors.Join(errs...)
}

func (cmd *renderCommand) Run(c *cobra.Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r, err := wav.Open(cmd.in)
	if err != nil {
		return err
	}
	defer r.Close()
	cfg.SampleRate = r.SampleRate()
	logger := newLogger(cfg)

	e, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	in := signal.NewInterleaved(r.NumChannels(), cfg.PeriodSize)
	out := signal.NewInterleaved(2, cfg.PeriodSize)
	s := newStrip().withMeter(r.SampleRate())
	s.set(cmd.pan, cmd.volume)
	g := s.graph(processor.NewInput(readers(in)...), processor.NewOutput(writers(out)...))
	if err := e.Rebuild(c.Context(), g); err != nil {
		return err
	}

	w, err := wav.Create(cmd.out, r.SampleRate(), out.NumChannels, r.BitDepth())
	if err != nil {
		return err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := thread.Configure(cfg.Main); err != nil {
		logger.WithError(err).Warn("failed to configure main thread")
	}
	ctx, cancel := context.WithCancel(c.Context())
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.meter.run(ctx, 10*time.Millisecond)
	})
	frames, err := wav.Render(c.Context(), e, r, in, out, w)
	cancel()
	if err := group.Wait(); err != nil {
		w.Close()
		return err
	}
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.OutOrStdout(), "rendered %d frames (%v) to %s\n", frames, signal.DurationOf(r.SampleRate(), int64(frames)), cmd.out)
	fmt.Fprintln(c.OutOrStdout(), s.meter)
	return nil
}
