package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lixenwraith/planets/config"
	"github.com/lixenwraith/planets/observability"
)

// app carries state shared by the root command and its subcommands
type app struct {
	v       *viper.Viper
	cfgFile string
	noAudio bool

	cfg    *config.Config
	logger *zap.Logger
}

// flagBindings maps command line flags to config keys
var flagBindings = map[string]string{
	"population": "simulation.population",
	"wrap":       "simulation.wrap_out_of_bounds",
	"kill":       "simulation.kill_out_of_bounds",
	"seed":       "simulation.seed",
	"fps":        "display.fps",
	"anchor":     "simulation.anchor.enabled",
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{v: config.NewViper()})
}

func newRootCmdFor(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "planets",
		Short:         "Planets is a gravitational particle field in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), a.cfg, a.logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./planets.yaml)")
	flags.Int("population", 0, "number of random bodies")
	flags.Bool("wrap", true, "wrap bodies leaving the field to the opposite side")
	flags.Bool("kill", false, "bodies leaving the field die and stop attracting")
	flags.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	flags.Int("fps", 0, "frames per second")
	flags.Bool("anchor", false, "add the heavy static anchor body")
	flags.BoolVar(&a.noAudio, "no-audio", false, "disable sound effects")

	rootCmd.AddCommand(newBenchCmd(a))
	return rootCmd
}

// initialize binds changed flags into viper, loads the config and sets up logging
func (a *app) initialize(cmd *cobra.Command) error {
	for name, key := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := a.v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "binding flag %s", name)
		}
	}
	if a.noAudio {
		a.v.Set("audio.enabled", false)
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := observability.Initialize(cfg.Logger)
	if err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	a.logger = logger
	logger.Info("Starting planets",
		zap.String("command", cmd.Name()),
		zap.Int("population", cfg.Simulation.Population),
		zap.Bool("wrap", cfg.Simulation.WrapOutOfBounds),
		zap.Bool("kill", cfg.Simulation.KillOutOfBounds))
	return nil
}
