// Package pidfile tracks the single daemon instance per user session.
package pidfile

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const filePerm = 0o644

// Write records pid at path, replacing any previous content.
func Write(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), filePerm)
}

// Read returns the pid stored at path.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, err
	}
	return pid, nil
}

// Remove deletes the pid file. A missing file is not an error.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// RemoveOwned deletes the pid file only while it still registers pid. A
// replacement instance may have re-registered by the time the old daemon
// finishes shutting down; its file must survive.
func RemoveOwned(path string, pid int) error {
	current, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if current != pid {
		return nil
	}
	return Remove(path)
}

// Alive reports whether a process with the given pid exists. Signal 0
// probes existence without delivering anything; EPERM still means the
// process is there.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// FindRunning returns the pid recorded at path if that process still exists.
// A missing file or a stale pid means no running instance.
func FindRunning(path string) (int, bool) {
	pid, err := Read(path)
	if err != nil {
		return 0, false
	}
	if !Alive(pid) {
		return 0, false
	}
	return pid, true
}
