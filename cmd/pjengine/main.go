package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pipelined.dev/engine"
	"pipelined.dev/engine/config"
	"pipelined.dev/engine/log"
)

type command interface {
	Name() string
	Help() string
	Register(*pflag.FlagSet)
	Run(*cobra.Command) error
}

var commands = []command{
	&renderCommand{},
	&dotCommand{},
	&playCommand{},
	&benchCommand{},
}

// global flags
var (
	configPath string
	debug      bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pjengine",
		Short:        "pjengine runs audio graphs in real time",
		Long:         `pjengine builds a channel strip graph and runs it offline on wav files, live on the default audio device or in a benchmark loop.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "engine YAML config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	for _, c := range commands {
		cc := &cobra.Command{
			Use:   c.Name(),
			Short: c.Help(),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.Run(cmd)
			},
		}
		c.Register(cc.Flags())
		root.AddCommand(cc)
	}
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig returns config from the file or defaults.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newLogger(cfg config.Config) *logrus.Logger {
	l := log.GetLogger()
	if debug || cfg.Debug {
		log.SetDebug(l, true)
	}
	return l
}

func newEngine(cfg config.Config, logger logrus.FieldLogger, options ...engine.Option) (*engine.Engine, error) {
	return engine.New(append([]engine.Option{
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
	}, options...)...)
}
