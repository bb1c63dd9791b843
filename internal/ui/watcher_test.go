package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherNotifiesOnStatusWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caffeine8.status")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("pid=1\nactive=1\n"), 0o644))

	select {
	case _, ok := <-w.Events():
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification delivered")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "caffeine8.status")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-w.Events():
		t.Fatal("unrelated file triggered a notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCloseEndsEvents(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "caffeine8.status"))
	require.NoError(t, err)

	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}
