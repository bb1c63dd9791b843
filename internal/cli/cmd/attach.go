package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caffeine8/caffeine8/internal/config"
	"github.com/caffeine8/caffeine8/internal/pidfile"
	"github.com/caffeine8/caffeine8/internal/ui"
)

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Open the status panel",
	Long: `Open the terminal status panel against the running daemon,
starting the daemon first if none is running.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Get()

		pid, ok := pidfile.FindRunning(cfg.Files.PidFile)
		if !ok {
			fmt.Println("caffeine8 is not running. Starting it now.")
			var err error
			pid, err = spawnDaemon()
			if err != nil {
				return fmt.Errorf("failed to start caffeine8 daemon: %w", err)
			}
			if err := pidfile.Write(cfg.Files.PidFile, pid); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write pid file: %v\n", err)
			}
		}

		return ui.Run(cmd.Context(), buildInfo.Version, pid, cfg.Files.StatusFile)
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
