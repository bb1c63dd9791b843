// Package daemon implements the inhibitor lifecycle controller: a single
// event loop that owns the three inhibition leases and reacts to requests
// delivered by the signal adapter.
package daemon

import (
	"context"
	"os"
	"time"

	"github.com/caffeine8/caffeine8/internal/inhibit"
	"github.com/caffeine8/caffeine8/internal/logging"
	"github.com/caffeine8/caffeine8/internal/status"
)

// Request is a discrete control message for the event loop.
type Request int

const (
	RequestAcquire Request = iota
	RequestRelease
	RequestTerminate
)

// State is the controller lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateAcquiring
	StateActive
	StateInactive
	StateTerminating
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAcquiring:
		return "acquiring"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	case StateTerminating:
		return "terminating"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// SessionLeaser acquires the cookie-identified screen-saver lease.
type SessionLeaser interface {
	Acquire(ctx context.Context) (uint32, error)
	Release(ctx context.Context, cookie uint32)
	Close() error
}

// SystemLeaser acquires a held-descriptor lease for one login1 category.
type SystemLeaser interface {
	What() string
	Acquire(ctx context.Context) (inhibit.Lease, error)
	Close() error
}

// Publisher makes controller state observable to the attach UI.
type Publisher interface {
	Publish(status.Snapshot) error
}

// Recorder persists state transitions. Optional; failures are log-only.
type Recorder interface {
	Record(ctx context.Context, state string, active bool, message string) error
}

// Compile-time interface checks.
var (
	_ SessionLeaser = (*inhibit.ScreenSaverClient)(nil)
	_ SystemLeaser  = (*inhibit.Login1Client)(nil)
	_ Publisher     = (*status.Publisher)(nil)
)

// Status messages, matching the wording readers of the status file expect.
const (
	msgActive          = "Inhibitors active (screen saver, idle, sleep)."
	msgAlreadyActive   = "Inhibitors already active."
	msgAlreadyInactive = "Inhibitors already inactive."
	msgReleased        = "Inhibitors released by user request."
	msgExitingActive   = "Inhibitors released (process exiting)."
)

// Options configures a Controller.
type Options struct {
	Session   SessionLeaser
	Idle      SystemLeaser
	Sleep     SystemLeaser
	Publisher Publisher
	Recorder  Recorder // optional
	Debug     bool
	// RepublishInterval is the cadence at which the status file is
	// refreshed between transitions. Defaults to one second.
	RepublishInterval time.Duration
	// PID overrides the published process id (tests). Defaults to os.Getpid().
	PID int
}

// Controller owns the aggregate inhibitor state. All fields are mutated only
// by the event loop goroutine; concurrency enters solely through the request
// channel.
type Controller struct {
	session   SessionLeaser
	idle      SystemLeaser
	sleep     SystemLeaser
	publisher Publisher
	recorder  Recorder
	debug     bool
	interval  time.Duration
	pid       int

	state       State
	cookie      uint32
	hasCookie   bool
	idleLease   inhibit.Lease
	sleepLease  inhibit.Lease
	lastMessage string
}

// New creates a controller in the uninitialized state.
func New(opts Options) *Controller {
	interval := opts.RepublishInterval
	if interval <= 0 {
		interval = time.Second
	}
	pid := opts.PID
	if pid == 0 {
		pid = os.Getpid()
	}
	return &Controller{
		session:   opts.Session,
		idle:      opts.Idle,
		sleep:     opts.Sleep,
		publisher: opts.Publisher,
		recorder:  opts.Recorder,
		debug:     opts.Debug,
		interval:  interval,
		pid:       pid,
		state:     StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Active reports whether all three leases are currently held.
func (c *Controller) Active() bool { return c.state == StateActive }

// Run attempts a full acquisition, then serves requests until termination is
// requested or ctx is cancelled. It always releases everything still held
// before returning.
func (c *Controller) Run(ctx context.Context, requests <-chan Request) error {
	c.acquireCycle(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case req, ok := <-requests:
			if !ok {
				c.terminate(ctx)
				return nil
			}
			switch req {
			case RequestAcquire:
				c.handleAcquire(ctx)
			case RequestRelease:
				c.handleRelease(ctx)
			case RequestTerminate:
				c.terminate(ctx)
				return nil
			}
		case <-ctx.Done():
			c.terminate(ctx)
			return nil
		case <-ticker.C:
			// Keeps the status file fresh for readers between transitions.
			c.publish(ctx)
		}
	}
}

// acquireCycle attempts to complete the set of held leases. Leases already
// held from an earlier partial acquisition are kept as-is rather than
// re-acquired, and nothing is rolled back on partial failure.
func (c *Controller) acquireCycle(ctx context.Context) {
	c.state = StateAcquiring

	ok := true

	if !c.hasCookie {
		cookie, err := c.session.Acquire(ctx)
		if err != nil {
			ok = false
			c.setStatus(ctx, err.Error())
		} else {
			c.cookie = cookie
			c.hasCookie = true
		}
	}

	if c.idleLease == nil {
		lease, err := c.idle.Acquire(ctx)
		if err != nil {
			ok = false
			c.setStatus(ctx, err.Error())
		} else {
			c.idleLease = lease
		}
	}

	if c.sleepLease == nil {
		lease, err := c.sleep.Acquire(ctx)
		if err != nil {
			ok = false
			c.setStatus(ctx, err.Error())
		} else {
			c.sleepLease = lease
		}
	}

	if ok {
		c.state = StateActive
		c.setStatus(ctx, msgActive)
	} else {
		c.state = StateInactive
		c.publish(ctx)
	}
	c.record(ctx)
}

func (c *Controller) handleAcquire(ctx context.Context) {
	if c.state == StateActive {
		c.setStatus(ctx, msgAlreadyActive)
		c.record(ctx)
		return
	}
	c.acquireCycle(ctx)
}

func (c *Controller) handleRelease(ctx context.Context) {
	if c.state != StateActive {
		c.setStatus(ctx, msgAlreadyInactive)
		c.record(ctx)
		return
	}
	c.releaseAll(ctx)
	c.state = StateInactive
	c.setStatus(ctx, msgReleased)
	c.record(ctx)
}

func (c *Controller) terminate(ctx context.Context) {
	if c.state == StateStopped {
		return
	}
	wereActive := c.state == StateActive
	c.state = StateTerminating

	c.releaseAll(ctx)
	if wereActive {
		c.lastMessage = msgExitingActive
	}

	c.state = StateStopped
	c.publish(ctx)
	c.record(ctx)
}

// releaseAll drops every held lease and both cached bus connections,
// best-effort: every release is attempted even if an earlier one fails.
func (c *Controller) releaseAll(ctx context.Context) {
	log := logging.FromContext(ctx)

	if c.hasCookie {
		c.session.Release(ctx, c.cookie)
		c.cookie = 0
		c.hasCookie = false
	}
	if c.idleLease != nil {
		if err := c.idleLease.Release(); err != nil {
			log.Debug().Err(err).Str("what", c.idleLease.What()).Msg("lease release failed")
		}
		c.idleLease = nil
	}
	if c.sleepLease != nil {
		if err := c.sleepLease.Release(); err != nil {
			log.Debug().Err(err).Str("what", c.sleepLease.What()).Msg("lease release failed")
		}
		c.sleepLease = nil
	}

	if err := c.session.Close(); err != nil {
		log.Debug().Err(err).Msg("session bus close failed")
	}
	if err := c.idle.Close(); err != nil {
		log.Debug().Err(err).Msg("system bus close failed")
	}
	if err := c.sleep.Close(); err != nil {
		log.Debug().Err(err).Msg("system bus close failed")
	}
}

// setStatus overwrites the last message and publishes a snapshot.
func (c *Controller) setStatus(ctx context.Context, message string) {
	c.lastMessage = message
	logging.FromContext(ctx).Debug().Msg(message)
	c.publish(ctx)
}

func (c *Controller) publish(ctx context.Context) {
	snap := status.Snapshot{
		PID:     c.pid,
		Active:  c.state == StateActive,
		Debug:   c.debug,
		Message: c.lastMessage,
	}
	if err := c.publisher.Publish(snap); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("status publication failed")
	}
}

func (c *Controller) record(ctx context.Context) {
	if c.recorder == nil {
		return
	}
	err := c.recorder.Record(ctx, c.state.String(), c.state == StateActive, c.lastMessage)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("history record failed")
	}
}
