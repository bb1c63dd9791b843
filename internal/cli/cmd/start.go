package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/caffeine8/caffeine8/internal/config"
	"github.com/caffeine8/caffeine8/internal/pidfile"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the inhibitor daemon",
	Long: `Start the inhibitor daemon as a detached background process.

Any already-running instance is stopped first; caffeine8 runs at most one
daemon per user session.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(_ *cobra.Command, _ []string) error {
	cfg := config.Get()

	if pid, ok := pidfile.FindRunning(cfg.Files.PidFile); ok {
		fmt.Printf("An instance of caffeine8 is already running with PID %d. Stopping it.\n", pid)
		_ = unix.Kill(pid, unix.SIGTERM)
	}

	pid, err := spawnDaemon()
	if err != nil {
		return fmt.Errorf("failed to start caffeine8 daemon: %w", err)
	}

	if err := pidfile.Write(cfg.Files.PidFile, pid); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not write pid file: %v\n", err)
	}
	fmt.Printf("New instance of caffeine8 started with PID %d\n", pid)
	return nil
}

// spawnDaemon re-executes the current binary as a detached `run` child in
// its own session, the Go replacement for the classic fork.
func spawnDaemon() (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, err
	}

	args := []string{"run", "--detached"}
	if debugFlag {
		args = append(args, "--debug")
	}

	child := exec.Command(exe, args...)
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	// stdin/stdout/stderr default to /dev/null; the daemon logs to its file.

	if err := child.Start(); err != nil {
		return 0, err
	}
	pid := child.Process.Pid
	_ = child.Process.Release()
	return pid, nil
}
