package smc

import (
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

// errInvalidArgument mirrors -EINVAL for thresholds the firmware cannot hold.
const errInvalidArgument = -22

// Driver exposes the SMC as a battery core hardware adapter.
type Driver struct {
	adapter.Base

	mu      sync.Mutex
	smc     *AppleSMC
	magsafe bool
}

var _ adapter.HardwareAdapter = &Driver{}

// NewDriver returns a driver on top of an opened AppleSMC.
func NewDriver(c *AppleSMC) *Driver {
	d := &Driver{smc: c}
	d.magsafe = c.HasMagSafe()
	logrus.WithField("magsafe", d.magsafe).Debug("SMC driver created")
	return d
}

func (d *Driver) Capabilities() adapter.Capabilities {
	return adapter.Capabilities(0).
		With(adapter.CapFetch).
		With(adapter.CapControl).
		With(adapter.CapSetFullThreshold).
		With(adapter.CapDebugText)
}

// Fetch reads the charge level, the power source and the charging switch,
// which are required, and the electrical readings when the SMC has them.
func (d *Driver) Fetch(s *types.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	charge, err := d.smc.GetBatteryCharge()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read battery charge")
	}
	plugged, err := d.smc.IsPluggedIn()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read ac power")
	}
	enabled, err := d.smc.IsChargingEnabled()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read charging state")
	}

	s.Present = true
	s.StateReady = true
	s.LevelPercent = charge
	s.ChargingEnabled = enabled
	s.ChargingSource = types.SourceNone
	if plugged {
		s.ChargingSource = types.SourceAC
	}

	if mv, err := d.smc.GetBatteryVoltage(); err == nil {
		s.VoltageMV = mv
	}
	if ma, err := d.smc.GetBatteryCurrent(); err == nil {
		s.CurrentMA = ma
		s.DischargeCurrentMA = 0
		if ma < 0 {
			s.DischargeCurrentMA = -ma
		}
	}
	if t, err := d.smc.GetBatteryTemperature(); err == nil {
		s.TemperatureDeciC = t
	}
	if uah, err := d.smc.GetFullChargeCapacity(); err == nil {
		s.FullCapacityUAh = uah
	}
	if limited, err := d.smc.IsChargeLimited(); err == nil {
		s.FullLevelPercent = 100
		if limited {
			s.FullLevelPercent = 80
		}
	}
	return nil
}

func (d *Driver) Control(cmd types.Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	switch cmd {
	case types.CommandEnable:
		err = d.smc.EnableCharging()
	case types.CommandDisable:
		err = d.smc.DisableCharging()
	default:
		return &adapter.StatusError{Op: "charger control", Code: errInvalidArgument}
	}
	if err != nil {
		return err
	}

	if d.magsafe {
		if err := d.smc.ShowChargerState(cmd == types.CommandEnable); err != nil {
			logrus.Warnf("failed to update MagSafe LED: %v", err)
		}
	}
	return nil
}

// SetFullThreshold maps 100% and 80% onto the firmware charge limit. Other
// values cannot be represented.
func (d *Driver) SetFullThreshold(percent int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch percent {
	case 100:
		return d.smc.SetChargeLimited(false)
	case 80:
		return d.smc.SetChargeLimited(true)
	default:
		return &adapter.StatusError{Op: "set charge limit", Code: errInvalidArgument}
	}
}

// DebugText dumps every known key.
func (d *Driver) DebugText() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var sb strings.Builder
	for _, key := range allKeys {
		v, err := d.smc.Read(key)
		if err != nil {
			fmt.Fprintf(&sb, "%s: <%v>\n", key, err)
			continue
		}
		fmt.Fprintf(&sb, "%s: % x\n", key, v.Bytes)
	}
	return sb.String(), nil
}
