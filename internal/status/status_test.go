package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caffeine8.status")
	p := NewPublisher(path)

	require.NoError(t, p.Publish(Snapshot{
		PID:     4242,
		Active:  true,
		Debug:   true,
		Message: "Inhibitors active (screen saver, idle, sleep).",
	}))

	snap, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 4242, snap.PID)
	require.True(t, snap.Active)
	require.True(t, snap.Debug)
	require.Equal(t, "Inhibitors active (screen saver, idle, sleep).", snap.Message)
}

func TestPublishOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caffeine8.status")
	p := NewPublisher(path)

	require.NoError(t, p.Publish(Snapshot{PID: 1, Active: true, Message: "first"}))
	require.NoError(t, p.Publish(Snapshot{PID: 1, Active: false, Message: "second"}))

	snap, err := Read(path)
	require.NoError(t, err)
	require.False(t, snap.Active)
	require.Equal(t, "second", snap.Message)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "first")
}

func TestSanitizeCollapsesNewlines(t *testing.T) {
	require.Equal(t, "a b c", Sanitize("a\nb\rc"))
	require.Equal(t, "plain", Sanitize("plain"))
}

func TestPublishSanitizesMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caffeine8.status")
	p := NewPublisher(path)

	require.NoError(t, p.Publish(Snapshot{PID: 7, Message: "line one\nline two"}))

	snap, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, "line one line two", snap.Message)
}

func TestReadMissingFile(t *testing.T) {
	snap, err := Read(filepath.Join(t.TempDir(), "nope.status"))
	require.Error(t, err)
	require.Equal(t, Placeholder(), snap)
}

func TestReadToleratesUnknownKeysAndGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caffeine8.status")
	content := "garbage line\nunknown=value\npid=99\nactive=1\nmessage=ok\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snap, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 99, snap.PID)
	require.True(t, snap.Active)
	require.Equal(t, "ok", snap.Message)
}

func TestReadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caffeine8.status")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	snap, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, "Status file present but empty.", snap.Message)
}

func TestBoolFieldVariants(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"yes", false},
		{"", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, parseBoolField(tt.value), "value %q", tt.value)
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caffeine8.status")
	p := NewPublisher(path)

	require.NoError(t, p.Publish(Snapshot{PID: 1}))
	require.NoError(t, p.Remove())
	require.NoError(t, p.Remove()) // already gone is fine
}
