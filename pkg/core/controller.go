package core

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

// Controller issues charger enable/disable commands and remembers the last
// one the hardware accepted.
type Controller struct {
	mu sync.Mutex

	log      *logrus.Logger
	adapter  adapter.HardwareAdapter
	state    types.ControlState
	onChange func(types.ControlState)
}

// NewController returns a controller with no adapter, in the Enabled state.
func NewController(log *logrus.Logger, onChange func(types.ControlState)) *Controller {
	return &Controller{
		log:      log,
		state:    types.ControlEnabled,
		onChange: onChange,
	}
}

func (c *Controller) attach(a adapter.HardwareAdapter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapter = a
	c.state = types.ControlEnabled
}

// Set sends cmd to the hardware. The control state only changes when the
// adapter reports success.
func (c *Controller) Set(cmd types.Command) error {
	changed, err := c.apply(cmd)
	if changed {
		c.notify(types.StateFor(cmd))
	}
	return err
}

// apply is Set without the change notification. It reports whether the
// control state changed so the caller can notify once its own locks are
// released.
func (c *Controller) apply(cmd types.Command) (bool, error) {
	if !cmd.Valid() {
		return false, invalidInput("charger command %d", int(cmd))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adapter == nil {
		return false, ErrNoAdapter
	}
	if !c.adapter.Capabilities().Has(adapter.CapControl) {
		c.log.Error("no charger control function")
		return false, ErrNoHandler
	}

	if err := c.adapter.Control(cmd); err != nil {
		c.log.WithFields(logrus.Fields{
			"command": cmd.String(),
			"code":    statusCode(err),
		}).Errorf("charger control failed: %v", err)
		return false, rejected("charger "+cmd.String(), err)
	}

	prev := c.state
	c.state = types.StateFor(cmd)

	c.log.WithField("command", cmd.String()).Debug("charger control applied")
	return prev != c.state, nil
}

func (c *Controller) notify(state types.ControlState) {
	if c.onChange != nil {
		c.onChange(state)
	}
}

// State returns the last successfully commanded state.
func (c *Controller) State() types.ControlState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
