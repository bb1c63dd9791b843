// Package status persists the daemon's state to a small key=value file read
// by the attach UI. Single writer (the daemon), best-effort readers.
package status

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const filePerm = 0o644

// Snapshot is a flat record of the controller state at publication time.
type Snapshot struct {
	PID     int
	Active  bool
	Debug   bool
	Message string
}

// Placeholder returns the snapshot readers fall back to when the status file
// is missing or unreadable.
func Placeholder() Snapshot {
	return Snapshot{PID: -1, Message: "Awaiting status update..."}
}

// Sanitize collapses a message to a single line so it fits the one-line-per-
// field file format.
func Sanitize(message string) string {
	message = strings.ReplaceAll(message, "\n", " ")
	return strings.ReplaceAll(message, "\r", " ")
}

// Publisher overwrites the status file on every publication. Truncate-and-
// write is sufficient for the local single-writer/single-reader contract.
type Publisher struct {
	path string
}

// NewPublisher creates a publisher writing to path.
func NewPublisher(path string) *Publisher {
	return &Publisher{path: path}
}

// Path returns the status file location.
func (p *Publisher) Path() string { return p.path }

// Publish overwrites the status file with the given snapshot.
func (p *Publisher) Publish(s Snapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "pid=%d\n", s.PID)
	fmt.Fprintf(&b, "active=%s\n", boolField(s.Active))
	fmt.Fprintf(&b, "debug=%s\n", boolField(s.Debug))
	fmt.Fprintf(&b, "message=%s\n", Sanitize(s.Message))
	return os.WriteFile(p.path, []byte(b.String()), filePerm)
}

// Remove deletes the status file. Missing files are not an error.
func (p *Publisher) Remove() error {
	err := os.Remove(p.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Read parses the status file at path. Unknown keys and malformed lines are
// skipped; callers should substitute Placeholder values when an error is
// returned (typically a missing file).
func Read(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Placeholder(), err
	}

	s := Placeholder()
	s.Message = ""
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch key {
		case "pid":
			if pid, err := strconv.Atoi(value); err == nil {
				s.PID = pid
			}
		case "active":
			s.Active = parseBoolField(value)
		case "debug":
			s.Debug = parseBoolField(value)
		case "message":
			s.Message = value
		}
	}
	if s.Message == "" {
		s.Message = "Status file present but empty."
	}
	return s, nil
}

func parseBoolField(value string) bool {
	switch value {
	case "1", "true", "TRUE":
		return true
	}
	return false
}
