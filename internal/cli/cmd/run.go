package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/caffeine8/caffeine8/internal/config"
	"github.com/caffeine8/caffeine8/internal/daemon"
	"github.com/caffeine8/caffeine8/internal/history"
	"github.com/caffeine8/caffeine8/internal/inhibit"
	"github.com/caffeine8/caffeine8/internal/logging"
	"github.com/caffeine8/caffeine8/internal/pidfile"
	"github.com/caffeine8/caffeine8/internal/status"
)

var runDetached bool

// runCmd is the foreground inhibitor loop. `start` and `attach` spawn it
// detached; running it directly is useful for debugging.
var runCmd = &cobra.Command{
	Use:    "run",
	Short:  "Run the inhibitor loop in the foreground",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runDaemon,
}

func init() {
	runCmd.Flags().BoolVar(&runDetached, "detached", false,
		"log to the configured log file instead of stderr")
	rootCmd.AddCommand(runCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	cfg := config.Get()

	logger, closeLog := daemonLogger(cfg)
	if closeLog != nil {
		defer closeLog()
	}
	ctx := logging.WithContext(context.Background(), logger)
	ctx = logging.WithComponent(ctx, "daemon")

	session := inhibit.NewScreenSaverClient(cfg.Inhibit.AppName, cfg.Inhibit.ScreenSaverReason)
	systemBus := inhibit.NewSystemBus()
	idle := inhibit.NewLogin1Client(systemBus, "idle", cfg.Inhibit.AppName, cfg.Inhibit.SleepReason)
	sleep := inhibit.NewLogin1Client(systemBus, "sleep", cfg.Inhibit.AppName, cfg.Inhibit.SleepReason)

	var recorder daemon.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path, cfg.History.MaxEntries, cfg.History.RetentionDays)
		if err != nil {
			logger.Warn().Err(err).Msg("history disabled: store unavailable")
		} else {
			defer store.Close()
			recorder = store
		}
	}

	if err := pidfile.Write(cfg.Files.PidFile, os.Getpid()); err != nil {
		logger.Warn().Err(err).Str("path", cfg.Files.PidFile).Msg("failed to write pid file")
	}
	defer func() {
		// A replacing instance may already have written its own pid; only
		// this daemon's registration is cleaned up.
		if err := pidfile.RemoveOwned(cfg.Files.PidFile, os.Getpid()); err != nil {
			logger.Warn().Err(err).Msg("failed to remove pid file")
		}
	}()

	requests, stopSignals := daemon.Notify()
	defer stopSignals()

	ctrl := daemon.New(daemon.Options{
		Session:           session,
		Idle:              idle,
		Sleep:             sleep,
		Publisher:         status.NewPublisher(cfg.Files.StatusFile),
		Recorder:          recorder,
		Debug:             debugFlag,
		RepublishInterval: cfg.Inhibit.RepublishInterval,
	})

	logger.Info().
		Str("version", buildInfo.Version).
		Int("pid", os.Getpid()).
		Msg("caffeine8 daemon started")

	err := ctrl.Run(ctx, requests)
	logger.Info().Msg("caffeine8 daemon stopped")
	return err
}

// daemonLogger builds the daemon logger. Detached daemons have no useful
// stderr, so their logs go to the configured log file as JSON.
func daemonLogger(cfg *config.Config) (zerolog.Logger, func()) {
	level := cfg.Logging.Level
	if debugFlag {
		level = "debug"
	}

	if runDetached {
		f, err := logging.OpenLogFile(cfg.Files.LogFile)
		if err == nil {
			logger := logging.New(logging.Config{
				Level:  logging.ParseLevel(level),
				Format: "json",
				Output: f,
			})
			return logger, func() { _ = f.Close() }
		}
	}
	return logging.NewFromValues(level, cfg.Logging.Format), nil
}
