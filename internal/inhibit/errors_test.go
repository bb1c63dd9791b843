package inhibit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	base := errors.New("no such service")

	connErr := &ConnectionError{Bus: "session", Err: base}
	require.Equal(t, "failed to connect to session bus: no such service", connErr.Error())
	require.ErrorIs(t, connErr, base)

	callErr := &CallError{Call: "ScreenSaver.Inhibit", Err: base}
	require.Equal(t, "ScreenSaver.Inhibit failed: no such service", callErr.Error())
	require.ErrorIs(t, callErr, base)

	protoErr := &ProtocolError{Call: "login1.Inhibit(idle)", Reason: "reply has no arguments"}
	require.Equal(t, "login1.Inhibit(idle): reply has no arguments", protoErr.Error())
}

func TestErrorsAsTaxonomy(t *testing.T) {
	var err error = &CallError{Call: "x", Err: errors.New("y")}

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)

	var connErr *ConnectionError
	require.False(t, errors.As(err, &connErr))
}
