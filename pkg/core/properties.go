package core

import (
	"strconv"
	"time"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

// Report is an aggregate view of the core used by status displays.
type Report struct {
	Snapshot     types.Snapshot     `json:"snapshot"`
	Status       string             `json:"status"`
	Health       string             `json:"health"`
	FullLatch    bool               `json:"fullLatch"`
	Control      types.ControlState `json:"control"`
	Timer        TimerState         `json:"timer"`
	Capabilities string             `json:"capabilities"`
	LastRefresh  time.Time          `json:"lastRefresh,omitempty"`
}

// Get reads a power-supply property after a bounded refresh. Fetch failures
// are not reported: the last cached telemetry is served instead.
func (c *Core) Get(p types.Property) (types.PropertyValue, error) {
	v := types.PropertyValue{Property: p}

	switch p {
	case types.PropStatus:
		status, err := c.cache.Status(DefaultMaxAge)
		c.traceRefresh(err)
		v.Value, v.Text = int(status), status.String()
	case types.PropHealth:
		health := c.health(c.snapshot())
		v.Value, v.Text = int(health), health.String()
	case types.PropPresent:
		if c.snapshot().Present {
			v.Value, v.Text = 1, "true"
		} else {
			v.Value, v.Text = 0, "false"
		}
	case types.PropTechnology:
		v.Value, v.Text = int(types.TechnologyLiIon), types.TechnologyLiIon.String()
	case types.PropCapacity:
		s := c.snapshot()
		v.Value, v.Text = s.LevelPercent, strconv.Itoa(s.LevelPercent)
	default:
		return v, invalidInput("unsupported property %q", p)
	}
	return v, nil
}

// Attr reads a raw telemetry field after a bounded refresh.
func (c *Core) Attr(a types.Attr) (int64, error) {
	s := c.snapshot()

	switch a {
	case types.AttrBattID:
		return int64(s.BatteryID), nil
	case types.AttrBattVol:
		return int64(s.VoltageMV), nil
	case types.AttrBattTemp:
		return int64(s.TemperatureDeciC), nil
	case types.AttrBattCurrent:
		return int64(s.CurrentMA), nil
	case types.AttrChargingSource:
		return int64(s.ChargingSource), nil
	case types.AttrChargingEnabled:
		return boolInt(s.ChargingEnabled), nil
	case types.AttrFullBat:
		return int64(s.FullCapacityUAh), nil
	case types.AttrOverVchg:
		return int64(s.OverVchg), nil
	default:
		c.log.WithField("attr", string(a)).Error("battery attribute is not supported")
		return 0, invalidInput("unsupported attribute %q", a)
	}
}

// Snapshot returns the telemetry after a bounded refresh.
func (c *Core) Snapshot() types.Snapshot {
	return c.snapshot()
}

// Online reports whether supply currently feeds the battery. It reads the
// stored charging source as-is, without the unknown-battery override and
// without refreshing.
func (c *Core) Online(supply types.Supply) bool {
	src := c.cache.Peek().ChargingSource

	switch supply {
	case types.SupplyAC:
		return src == types.SourceAC || src == types.SourceAC9V
	case types.SupplyUSB:
		return src == types.SourceUSB
	case types.SupplyWireless:
		return src == types.SourceWireless
	default:
		return false
	}
}

// DebugText passes the adapter's diagnostic dump through untouched.
func (c *Core) DebugText() (string, error) {
	a := c.hardware()
	if a == nil {
		return "", ErrNoAdapter
	}
	if !a.Capabilities().Has(adapter.CapDebugText) {
		return "", ErrNoHandler
	}
	text, err := a.DebugText()
	if err != nil {
		return "", rejected("debug text", err)
	}
	return text, nil
}

// Report collects everything a status display needs.
func (c *Core) Report() Report {
	status, err := c.cache.Status(DefaultMaxAge)
	c.traceRefresh(err)
	s := c.cache.Peek()
	last, _ := c.cache.LastRefresh()

	return Report{
		Snapshot:     s,
		Status:       status.String(),
		Health:       c.health(s).String(),
		FullLatch:    c.cache.FullLatch(),
		Control:      c.ctl.State(),
		Timer:        c.timed.State(),
		Capabilities: c.Capabilities().String(),
		LastRefresh:  last,
	}
}

func (c *Core) snapshot() types.Snapshot {
	s, err := c.cache.Snapshot(DefaultMaxAge)
	c.traceRefresh(err)
	return s
}

func (c *Core) health(s types.Snapshot) types.Health {
	var fault func(int32) bool
	if a := c.hardware(); a != nil && a.Capabilities().Has(adapter.CapTemperatureFault) {
		fault = a.IsTemperatureFault
	}
	return ResolveHealth(s.TemperatureDeciC, fault)
}

func (c *Core) traceRefresh(err error) {
	if err != nil {
		c.log.Tracef("serving cached battery info: %v", err)
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
