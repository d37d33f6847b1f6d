package core

import (
	"time"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

// MaxDisableSeconds bounds the charger timer request.
const MaxDisableSeconds = int(MaxDisableDuration / time.Second)

// SetFullLevel asks the adapter to treat percent as a full charge.
func (c *Core) SetFullLevel(percent int) error {
	if percent <= 0 || percent > 100 {
		return invalidInput("full level %d out of range [1, 100]", percent)
	}

	a := c.hardware()
	if a == nil {
		return ErrNoAdapter
	}
	if !a.Capabilities().Has(adapter.CapSetFullThreshold) {
		c.log.Error("no set full level function")
		return ErrNoHandler
	}
	if err := a.SetFullThreshold(percent); err != nil {
		return rejected("set full level", err)
	}

	c.log.Infof("set full level to %d%%", percent)
	return nil
}

// SetChargerSwitch enables or disables charging immediately. A successful
// switch cancels any pending timed re-enable so it cannot override the
// request later.
func (c *Core) SetChargerSwitch(cmd types.Command) error {
	if !cmd.Valid() {
		return invalidInput("charger command %d", int(cmd))
	}
	if err := c.timed.Switch(cmd); err != nil {
		return err
	}

	c.log.Infof("charger %sd", cmd)
	return nil
}

// SetChargerTimer disables charging for seconds and re-enables it afterwards.
// Zero re-enables charging now.
func (c *Core) SetChargerTimer(seconds int) error {
	if seconds < 0 || seconds > MaxDisableSeconds {
		return invalidInput("charger timer %d out of range [0, %d]", seconds, MaxDisableSeconds)
	}
	return c.timed.DisableFor(time.Duration(seconds) * time.Second)
}

// ChargerControlState returns the last successfully commanded charger state.
func (c *Core) ChargerControlState() types.ControlState {
	return c.ctl.State()
}

// TimerState returns the state of the timed charger disable.
func (c *Core) TimerState() TimerState {
	return c.timed.State()
}
