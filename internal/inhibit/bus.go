// Package inhibit talks to the desktop's idle-inhibition facilities over D-Bus:
// the session-level org.freedesktop.ScreenSaver service and the system-level
// org.freedesktop.login1 manager.
package inhibit

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

// Bus is a lazily connected, memoized D-Bus connection. The first Conn call
// dials; later calls reuse the same connection until Close. Clients sharing
// one Bus share the underlying connection.
type Bus struct {
	name string
	dial func(...dbus.ConnOption) (*dbus.Conn, error)

	mu   sync.Mutex
	conn *dbus.Conn
}

// NewSessionBus returns a Bus for the per-session message bus.
func NewSessionBus() *Bus {
	return &Bus{name: "session", dial: dbus.ConnectSessionBus}
}

// NewSystemBus returns a Bus for the system message bus.
func NewSystemBus() *Bus {
	return &Bus{name: "system", dial: dbus.ConnectSystemBus}
}

// Conn returns the cached connection, dialing on first use.
func (b *Bus) Conn() (*dbus.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		return b.conn, nil
	}
	conn, err := b.dial()
	if err != nil {
		return nil, &ConnectionError{Bus: b.name, Err: err}
	}
	b.conn = conn
	return conn, nil
}

// Close drops the cached connection. Safe to call repeatedly.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}
