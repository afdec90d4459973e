package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"pipelined.dev/engine/portaudio"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/signal"
)

type playCommand struct {
	inputs   int
	duration time.Duration
	pan      float32
	volume   float32
}

func (*playCommand) Name() string {
	return "play"
}

func (*playCommand) Help() string {
	return "Run the channel strip on the default audio device"
}

func (cmd *playCommand) Register(fs *pflag.FlagSet) {
	fs.IntVar(&cmd.inputs, "inputs", 1, "number of captured channels")
	fs.DurationVar(&cmd.duration, "duration", 10*time.Second, "how long to run")
	fs.Float32Var(&cmd.pan, "pan", 0, "pan position in [-1, 1]")
	fs.Float32Var(&cmd.volume, "volume", 1, "volume gain")
}

func (cmd *playCommand) Run(c *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	e, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	// device buffers are replaced by the stream every period
	in := &signal.Interleaved{NumChannels: cmd.inputs}
	out := &signal.Interleaved{NumChannels: 2}
	s := newStrip().withMeter(cfg.SampleRate)
	s.set(cmd.pan, cmd.volume)
	g := s.graph(processor.NewInput(readers(in)...), processor.NewOutput(writers(out)...))
	if err := e.Rebuild(c.Context(), g); err != nil {
		return err
	}

	d, err := portaudio.Open(e, cfg.SampleRate, cfg.PeriodSize, in, out)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Start(); err != nil {
		return err
	}
	logger.WithField("duration", cmd.duration).Info("playing")

	ctx, cancel := context.WithTimeout(c.Context(), cmd.duration)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.meter.run(ctx, 50*time.Millisecond)
	})
	if err := group.Wait(); err != nil {
		d.Stop()
		return err
	}
	if err := d.Stop(); err != nil {
		return err
	}
	fmt.Fprintf(c.OutOrStdout(), "played %v, %v\n", cmd.duration, s.meter)
	return nil
}
