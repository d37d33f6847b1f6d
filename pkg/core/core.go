// Package core keeps the authoritative battery telemetry cache, derives the
// charging status from it and supervises charger control, including timed
// disables that re-enable charging on their own.
//
// A Core is the single context object for one hardware adapter. Everything
// that the reporting layer or a user can ask for goes through it.
package core

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
	"github.com/battcore/battcore/pkg/workqueue"
)

// Option configures a Core.
type Option func(*Core)

// WithClock replaces the wall clock used for staleness and alarms.
func WithClock(clk clock.Clock) Option {
	return func(c *Core) { c.clock = clk }
}

// WithLogger replaces the logrus standard logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Core) { c.log = log }
}

// WithSupplyNotifier registers a callback invoked after Update refreshed the
// telemetry of a supply.
func WithSupplyNotifier(fn func(supply types.Supply)) Option {
	return func(c *Core) { c.onSupplyChanged = fn }
}

// WithControlNotifier registers a callback invoked whenever the charger
// control state changes, including changes made by the re-enable alarm.
func WithControlNotifier(fn func(state types.ControlState)) Option {
	return func(c *Core) { c.onControlChanged = fn }
}

// WithTimerNotifier sets a callback invoked whenever the timed disable is
// armed, disarmed or expires.
func WithTimerNotifier(fn func(state TimerState)) Option {
	return func(c *Core) { c.onTimerChanged = fn }
}

// Core ties the cache, the charger controller and the timed control to one
// registered adapter.
type Core struct {
	mu         sync.Mutex
	adapter    adapter.HardwareAdapter
	registered bool

	clock clock.Clock
	log   *logrus.Logger

	cache *Cache
	ctl   *Controller
	timed *TimedControl
	queue *workqueue.Queue

	onSupplyChanged  func(types.Supply)
	onControlChanged func(types.ControlState)
	onTimerChanged   func(TimerState)
}

// New returns an unregistered Core holding the default snapshot.
func New(opts ...Option) *Core {
	c := &Core{
		clock: clock.New(),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.queue = workqueue.New("charger_ctrl_timer", workqueue.DefaultSize)
	c.cache = NewCache(c.clock, c.log)
	c.ctl = NewController(c.log, c.controlChanged)
	c.timed = NewTimedControl(c.ctl, c.clock, c.queue, c.log, c.onTimerChanged)
	return c
}

// Register attaches the hardware adapter and starts the deferred-task worker.
// Only one adapter can ever be registered.
func (c *Core) Register(a adapter.HardwareAdapter) error {
	if a == nil {
		return invalidInput("nil adapter")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registered {
		c.log.Error("only one battery adapter can exist")
		return ErrAlreadyRegistered
	}
	c.registered = true
	c.adapter = a

	c.cache.attach(a)
	c.ctl.attach(a)
	c.queue.Start()

	c.log.WithField("capabilities", a.Capabilities().String()).Info("battery adapter registered")
	return nil
}

// Close cancels any armed alarm and stops the deferred-task worker.
func (c *Core) Close() {
	c.timed.Cancel()
	c.queue.Stop()
}

// Update forces a telemetry refresh and tells subscribers that supply changed.
// Adapters call it when the hardware signals a change.
func (c *Core) Update(supply types.Supply) error {
	if c.hardware() == nil {
		c.log.Error("no battery adapter exists")
		return ErrNoAdapter
	}

	if err := c.cache.Refresh(0); err != nil {
		c.log.WithField("supply", supply.String()).Warnf("forced refresh failed: %v", err)
	}

	if c.onSupplyChanged != nil {
		c.onSupplyChanged(supply)
	}
	return nil
}

func (c *Core) hardware() adapter.HardwareAdapter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter
}

func (c *Core) controlChanged(state types.ControlState) {
	if c.onControlChanged != nil {
		c.onControlChanged(state)
	}
}

// Capabilities returns the registered adapter's capabilities, or none.
func (c *Core) Capabilities() adapter.Capabilities {
	if a := c.hardware(); a != nil {
		return a.Capabilities()
	}
	return 0
}
