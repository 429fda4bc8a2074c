package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/miner-runner/internal/config"
	"github.com/oshokin/miner-runner/internal/logger"
	"github.com/oshokin/miner-runner/internal/service/guard"
	"github.com/oshokin/miner-runner/internal/service/runner"
	"github.com/oshokin/miner-runner/internal/service/scheduler"
	"github.com/oshokin/miner-runner/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// dataDir optionally overrides the configured data directory.
	dataDir string
	// logLevel selects the minimum log level.
	logLevel string

	// rootCmd represents the base command invoking one miner run.
	rootCmd = &cobra.Command{
		Use:   "miner-runner",
		Short: "Run the unity-miner container and publish its results.",
		Long: `Wrapper around the containerized unity-miner scraper.

Snapshots the artifact directory, runs the miner once, detects freshly
produced library files, announces them over the configured webhook and
re-renders the static index page. Failures of the miner are reported over
the error webhook; a signal-terminated miner is treated as an intentional
stop and reported nowhere.

All settings are optional: without a settings file the wrapper runs with
defaults and every notification channel disabled.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			applyLogLevel()

			if err := guard.Check(ctx); err != nil {
				return err
			}

			return runner.Run(ctx, &runner.Options{
				ConfigPath: configPath,
				DataDir:    dataDir,
			})
		},
	}

	// scheduleCmd runs the miner repeatedly on a cron schedule.
	scheduleCmd = &cobra.Command{
		Use:   "schedule [cron-spec]",
		Short: "Run the miner periodically on a cron schedule.",
		Long: `Run the miner on a repeating schedule instead of once.

The cron expression is taken from the argument when provided, otherwise
from the "schedule" setting in the configuration file. Ticks arriving
while a run is still in flight are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			applyLogLevel()

			if err := guard.Check(ctx); err != nil {
				return err
			}

			spec := config.LoadOrDefault(ctx, configPath).Runner.Schedule
			if len(args) > 0 {
				spec = args[0]
			}

			return scheduler.Run(ctx, &scheduler.Options{
				Spec: spec,
				Job: func(jobCtx context.Context) error {
					return runner.Run(jobCtx, &runner.Options{
						ConfigPath: configPath,
						DataDir:    dataDir,
					})
				},
			})
		},
	}
)

// applyLogLevel sets the global log level from the flag, keeping the
// default on unknown values.
func applyLogLevel() {
	if level, ok := logger.ParseLogLevel(logLevel); ok {
		logger.SetLevel(level)
	}
}

// Execute runs the miner-runner CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "override the configured data directory")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(scheduleCmd)
}
