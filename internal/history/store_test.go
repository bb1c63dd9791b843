package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, maxEntries, retentionDays int) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.sqlite")
	s, err := Open(path, maxEntries, retentionDays)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestRecordAndRecent(t *testing.T) {
	s, _ := openStore(t, 0, 0)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "active", true, "Inhibitors active (screen saver, idle, sleep)."))
	require.NoError(t, s.Record(ctx, "inactive", false, "Inhibitors released by user request."))
	require.NoError(t, s.Record(ctx, "stopped", false, ""))

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Most recent first.
	require.Equal(t, "stopped", got[0].State)
	require.Equal(t, "inactive", got[1].State)
	require.Equal(t, "active", got[2].State)
	require.True(t, got[2].Active)
	require.False(t, got[0].Active)
	require.Contains(t, got[1].Message, "user request")
}

func TestRecentDefaultLimit(t *testing.T) {
	s, _ := openStore(t, 0, 0)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, s.Record(ctx, "active", true, "tick"))
	}

	got, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 20)
}

func TestRecentOnEmptyStore(t *testing.T) {
	s, _ := openStore(t, 0, 0)

	got, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestOpenPrunesToMaxEntries(t *testing.T) {
	s, path := openStore(t, 0, 0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Record(ctx, "active", true, "tick"))
	}
	require.NoError(t, s.Close())

	pruned, err := Open(path, 4, 0)
	require.NoError(t, err)
	defer pruned.Close()

	got, err := pruned.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// The newest rows survive.
	for i := 1; i < len(got); i++ {
		require.Greater(t, got[i-1].ID, got[i].ID)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "history.sqlite")

	s, err := Open(path, 0, 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Record(context.Background(), "active", true, ""))
}

func TestReopenKeepsRows(t *testing.T) {
	s, path := openStore(t, 0, 0)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "active", true, "first run"))
	require.NoError(t, s.Close())

	again, err := Open(path, 0, 0)
	require.NoError(t, err)
	defer again.Close()

	got, err := again.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "first run", got[0].Message)
}
