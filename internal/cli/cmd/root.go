// Package cmd provides Cobra CLI commands for caffeine8.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caffeine8/caffeine8/internal/config"
)

// Info holds build metadata passed in from main.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

var (
	buildInfo Info
	debugFlag bool

	rootCmd = &cobra.Command{
		Use:   "caffeine8",
		Short: "Keep your Linux desktop session awake",
		Long: `caffeine8 - a desktop idle inhibitor.

A background process that prevents the screen saver and the power-management
idle/sleep timers from activating, toggled at runtime via signals or the
attach panel.

Running caffeine8 without a subcommand starts the daemon, matching the
classic start/stop/attach workflow:

  caffeine8            # start the daemon (same as 'caffeine8 start')
  caffeine8 stop       # stop the running daemon
  caffeine8 attach     # open the status panel, starting the daemon if needed`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need config
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}
			if err := config.Init(); err != nil {
				return fmt.Errorf("initialize configuration: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand behaves like "start", as the original did.
			return runStart(cmd, args)
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetBuildInfo sets the build information (called from main before Execute).
func SetBuildInfo(info Info) {
	buildInfo = info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("caffeine8 %s\n", buildInfo.Version)
		fmt.Printf("commit: %s\n", buildInfo.Commit)
		fmt.Printf("built: %s\n", buildInfo.BuildDate)
		fmt.Printf("go: %s\n", buildInfo.GoVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging (echoed into the daemon status file)")
	rootCmd.AddCommand(versionCmd)
}
