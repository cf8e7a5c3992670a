package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sidkik/foldersync/cmd/util"
	"github.com/sidkik/foldersync/pkg/config"
	"github.com/sidkik/foldersync/pkg/errors"
	"github.com/sidkik/foldersync/pkg/sync"
	"github.com/sidkik/foldersync/pkg/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "FOLDERSYNC_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if err := New().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

// New creates the root `foldersync` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "foldersync <source_folder> <replica_folder> <sync_interval_in_seconds> <log_file>",
		Short: "Periodically mirror a folder into a replica folder.",

		// All arguments are positional, so that paths starting with a dash
		// aren't mistaken for flags.
		DisableFlagParsing: true,
		SilenceUsage:       true,

		// The call to Execute prints the error, so we silence errors here to
		// avoid double printing.
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse(args)
			if err != nil {
				// Configuration problems aren't fatal errors. Just tell the
				// user what's wrong.
				fmt.Fprintln(cmd.OutOrStdout(), errors.GetPrintableMessage(err))
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}
}

// run syncs until `ctx` is cancelled. Log messages are written to `stdout`
// as well as the configured log file.
func run(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	logFile, err := util.OpenLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	level := log.InfoLevel
	if os.Getenv(verboseLogKey) == "true" {
		level = log.DebugLevel
	}
	logger := util.NewLogger(level, stdout, logFile)

	logger.WithFields(log.Fields{
		"version":  version.Version,
		"source":   cfg.Source,
		"replica":  cfg.Replica,
		"interval": cfg.Interval,
		"logFile":  cfg.LogFile,
	}).Debug("Starting foldersync")

	driver := sync.NewDriver(sync.DriverConfig{
		Source:     cfg.Source,
		Replica:    cfg.Replica,
		Interval:   cfg.Interval,
		Reconciler: sync.NewReconciler(afero.NewOsFs(), logger),
		Log:        logger,
	})
	driver.Run(ctx)

	logger.Debug("Stopped foldersync")
	return nil
}
