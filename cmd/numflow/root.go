package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-numflow/internal/config"
	"github.com/ahrav/go-numflow/internal/logging"
	"github.com/ahrav/go-numflow/internal/workflow"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "numflow",
		Short: "Random number branching workflow on Temporal",
		Long: `numflow generates a random number, waits one second, and runs exactly one
of two handlers depending on whether the number exceeds a target.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(
		newWorkerCmd(a),
		newServeCmd(a),
		newStartCmd(a),
		newSimulateCmd(a),
		newGraphCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) workflowOptions() workflow.Options {
	return workflow.Options{
		ActivityTimeout: a.cfg.Workflow.ActivityTimeout,
		MaxAttempts:     a.cfg.Workflow.MaxAttempts,
	}
}
