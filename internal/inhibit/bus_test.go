package inhibit

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"
)

func TestBusConnWrapsDialFailure(t *testing.T) {
	dialErr := errors.New("socket missing")
	dials := 0
	b := &Bus{
		name: "session",
		dial: func(...dbus.ConnOption) (*dbus.Conn, error) {
			dials++
			return nil, dialErr
		},
	}

	_, err := b.Conn()
	require.Error(t, err)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, "session", connErr.Bus)
	require.ErrorIs(t, err, dialErr)

	// A failed dial is not cached; the next Conn retries.
	_, err = b.Conn()
	require.Error(t, err)
	require.Equal(t, 2, dials)
}

func TestBusCloseWithoutConn(t *testing.T) {
	b := NewSystemBus()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}
