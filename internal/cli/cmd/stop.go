package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/caffeine8/caffeine8/internal/config"
	"github.com/caffeine8/caffeine8/internal/pidfile"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running inhibitor daemon",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg := config.Get()

		pid, ok := pidfile.FindRunning(cfg.Files.PidFile)
		if !ok {
			// Nothing to stop is still a success.
			fmt.Println("No existing instance found.")
			return nil
		}

		fmt.Printf("Stopping existing instance with PID %d\n", pid)
		if err := unix.Kill(pid, unix.SIGTERM); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to signal PID %d: %v\n", pid, err)
		}
		if err := pidfile.Remove(cfg.Files.PidFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not delete pid file: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
