package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pipelined.dev/engine/graph"
	"pipelined.dev/engine/log"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/signal"
)

type dotCommand struct {
	channels int
	raw      bool
}

func (*dotCommand) Name() string {
	return "dot"
}

func (*dotCommand) Help() string {
	return "Print the channel strip graph in DOT format"
}

func (cmd *dotCommand) Register(fs *pflag.FlagSet) {
	fs.IntVar(&cmd.channels, "channels", 2, "number of input channels")
	fs.BoolVar(&cmd.raw, "raw", false, "print the graph before finalization")
}

func (cmd *dotCommand) Run(c *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	in := signal.NewInterleaved(cmd.channels, cfg.PeriodSize)
	out := signal.NewInterleaved(2, cfg.PeriodSize)
	g := newStrip().graph(processor.NewInput(readers(in)...), processor.NewOutput(writers(out)...))
	if cmd.raw {
		_, err := fmt.Fprint(c.OutOrStdout(), graph.Dot(g))
		return err
	}

	e, err := newEngine(cfg, log.Discard())
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.Rebuild(c.Context(), g); err != nil {
		return err
	}
	_, err = fmt.Fprint(c.OutOrStdout(), e.Dot())
	return err
}
