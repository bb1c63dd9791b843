package inhibit

import (
	"context"
	"sync"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"

	"github.com/caffeine8/caffeine8/internal/logging"
)

const (
	login1Dest  = "org.freedesktop.login1"
	login1Path  = "/org/freedesktop/login1"
	login1Iface = "org.freedesktop.login1.Manager"

	// "block" prevents the action rather than merely delaying it.
	inhibitModeBlock = "block"
)

// Lease is a held system-level inhibition lock. Releasing it twice is a no-op.
type Lease interface {
	What() string
	Release() error
}

// login1Lease holds the unix file descriptor returned by login1.Inhibit.
// The inhibition lasts exactly as long as the descriptor stays open.
type login1Lease struct {
	what string

	mu     sync.Mutex
	fd     int
	closed bool
}

// Compile-time interface check.
var _ Lease = (*login1Lease)(nil)

func (l *login1Lease) What() string { return l.what }

// Release closes the held descriptor, ending the inhibition.
func (l *login1Lease) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return unix.Close(l.fd)
}

// Login1Client acquires held-descriptor inhibition leases from the
// org.freedesktop.login1 manager for a single category ("idle" or "sleep").
// Instances share the system-bus connection via a common Bus.
type Login1Client struct {
	bus  *Bus
	what string
	who  string
	why  string
}

// NewLogin1Client creates a client for one inhibition category. The Bus is
// typically shared between the idle and sleep clients.
func NewLogin1Client(bus *Bus, what, who, why string) *Login1Client {
	return &Login1Client{bus: bus, what: what, who: who, why: why}
}

// What returns the inhibition category this client acquires.
func (c *Login1Client) What() string { return c.what }

// Acquire issues login1.Inhibit in block mode and returns the held lease.
func (c *Login1Client) Acquire(ctx context.Context) (Lease, error) {
	conn, err := c.bus.Conn()
	if err != nil {
		return nil, err
	}

	callName := "login1.Inhibit(" + c.what + ")"

	obj := conn.Object(login1Dest, login1Path)
	call := obj.CallWithContext(ctx, login1Iface+".Inhibit", 0,
		c.what, c.who, c.why, inhibitModeBlock)
	if call.Err != nil {
		return nil, &CallError{Call: callName, Err: call.Err}
	}

	if len(call.Body) == 0 {
		return nil, &ProtocolError{Call: callName, Reason: "reply has no arguments"}
	}
	fd, ok := call.Body[0].(dbus.UnixFD)
	if !ok {
		return nil, &ProtocolError{Call: callName, Reason: "reply is not a unix fd"}
	}

	unix.CloseOnExec(int(fd))

	logging.FromContext(ctx).Debug().
		Str("what", c.what).
		Int("fd", int(fd)).
		Msg("login1 inhibitor acquired")

	return &login1Lease{what: c.what, fd: int(fd)}, nil
}

// Close drops the shared system-bus connection.
func (c *Login1Client) Close() error {
	return c.bus.Close()
}
