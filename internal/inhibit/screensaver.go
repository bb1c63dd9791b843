package inhibit

import (
	"context"

	"github.com/caffeine8/caffeine8/internal/logging"
)

const (
	screenSaverDest  = "org.freedesktop.ScreenSaver"
	screenSaverPath  = "/ScreenSaver"
	screenSaverIface = "org.freedesktop.ScreenSaver"
)

// ScreenSaverClient acquires and releases the session-level screen-saver
// inhibition lease. The lease is identified by a numeric cookie.
type ScreenSaverClient struct {
	bus     *Bus
	appName string
	reason  string
}

// NewScreenSaverClient creates a client for the org.freedesktop.ScreenSaver
// service on the session bus.
func NewScreenSaverClient(appName, reason string) *ScreenSaverClient {
	return &ScreenSaverClient{
		bus:     NewSessionBus(),
		appName: appName,
		reason:  reason,
	}
}

// Acquire issues ScreenSaver.Inhibit and returns the lease cookie.
// The session-bus connection is dialed on first use and cached.
func (c *ScreenSaverClient) Acquire(ctx context.Context) (uint32, error) {
	conn, err := c.bus.Conn()
	if err != nil {
		return 0, err
	}

	obj := conn.Object(screenSaverDest, screenSaverPath)
	call := obj.CallWithContext(ctx, screenSaverIface+".Inhibit", 0, c.appName, c.reason)
	if call.Err != nil {
		return 0, &CallError{Call: "ScreenSaver.Inhibit", Err: call.Err}
	}

	var cookie uint32
	if err := call.Store(&cookie); err != nil {
		return 0, &CallError{Call: "ScreenSaver.Inhibit", Err: err}
	}

	logging.FromContext(ctx).Debug().
		Uint32("cookie", cookie).
		Msg("screen saver inhibitor acquired")
	return cookie, nil
}

// Release issues ScreenSaver.UnInhibit for a previously acquired cookie.
// Best-effort: release runs during shutdown where no corrective action is
// possible, so failures are logged and swallowed.
func (c *ScreenSaverClient) Release(ctx context.Context, cookie uint32) {
	log := logging.FromContext(ctx)

	conn, err := c.bus.Conn()
	if err != nil {
		log.Debug().Err(err).Msg("screen saver release skipped: no bus connection")
		return
	}

	obj := conn.Object(screenSaverDest, screenSaverPath)
	call := obj.CallWithContext(ctx, screenSaverIface+".UnInhibit", 0, cookie)
	if call.Err != nil {
		log.Debug().Err(call.Err).Msg("ScreenSaver.UnInhibit failed")
		return
	}

	log.Debug().Uint32("cookie", cookie).Msg("screen saver inhibitor released")
}

// Close drops the cached session-bus connection.
func (c *ScreenSaverClient) Close() error {
	return c.bus.Close()
}
