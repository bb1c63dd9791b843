package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeine8/caffeine8/internal/config"
	"github.com/caffeine8/caffeine8/internal/pidfile"
	"github.com/caffeine8/caffeine8/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the daemon status",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg := config.Get()

		snap, err := status.Read(cfg.Files.StatusFile)
		if err != nil {
			fmt.Println("caffeine8 is not running (no status file).")
			return nil
		}

		running := pidfile.Alive(snap.PID)

		fmt.Printf("PID:        %d", snap.PID)
		if !running {
			fmt.Print(" (not running, stale status file)")
		}
		fmt.Println()
		fmt.Printf("Inhibitors: %s\n", activeWord(snap.Active))
		fmt.Printf("Debug:      %s\n", enabledWord(snap.Debug))
		fmt.Printf("Status:     %s\n", snap.Message)
		return nil
	},
}

func activeWord(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "inactive"
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
