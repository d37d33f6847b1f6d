// Package sysbattery reads battery telemetry through the operating system's
// power-supply interface. It cannot control the charger.
package sysbattery

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

var getBattery = battery.Get

// Reader is a fetch-only adapter backed by the OS battery API.
type Reader struct {
	adapter.Base

	index int

	mu   sync.Mutex
	last *battery.Battery
}

var _ adapter.HardwareAdapter = &Reader{}

// New returns a Reader for the battery at index. Every Apple Silicon laptop
// has a single battery at index 0.
func New(index int) *Reader {
	return &Reader{index: index}
}

func (r *Reader) Capabilities() adapter.Capabilities {
	return adapter.Capabilities(0).With(adapter.CapFetch).With(adapter.CapDebugText)
}

func (r *Reader) Fetch(s *types.Snapshot) error {
	b, err := getBattery(r.index)
	if err != nil && !usablePartial(b, err) {
		return pkgerrors.Wrapf(err, "failed to get battery %d", r.index)
	}

	r.mu.Lock()
	r.last = b
	r.mu.Unlock()

	s.Present = true
	s.StateReady = true

	if b.Full > 0 {
		s.LevelPercent = int(math.Round(b.Current / b.Full * 100))
	}

	// The OS only reports Unknown while external power is connected and the
	// battery is neither charging nor full (macOS), or for sysfs states it
	// has no name for, such as "Not charging" (Linux). Both mean the charger
	// is present but inhibited.
	switch b.State {
	case battery.Charging, battery.Full:
		s.ChargingSource = types.SourceAC
		s.ChargingEnabled = true
	case battery.Unknown:
		s.ChargingSource = types.SourceAC
		s.ChargingEnabled = false
	default:
		s.ChargingSource = types.SourceNone
		s.ChargingEnabled = false
	}

	if b.Voltage > 0 {
		s.VoltageMV = int32(math.Round(b.Voltage * 1000))
		ma := int32(math.Round(b.ChargeRate / b.Voltage))
		if b.State == battery.Discharging {
			s.CurrentMA = -ma
			s.DischargeCurrentMA = ma
		} else {
			s.CurrentMA = ma
			s.DischargeCurrentMA = 0
		}
	}
	if b.DesignVoltage > 0 {
		s.FullCapacityUAh = int32(math.Round(b.Full / b.DesignVoltage * 1000))
	}
	return nil
}

// usablePartial reports whether a partial read still carries the charge
// level.
func usablePartial(b *battery.Battery, err error) bool {
	var partial battery.ErrPartial
	if b == nil || !errors.As(err, &partial) {
		return false
	}
	return partial.Current == nil && partial.Full == nil
}

// DebugText prints the last battery record returned by the OS.
func (r *Reader) DebugText() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last == nil {
		return "no battery info fetched yet\n", nil
	}
	b := r.last
	return fmt.Sprintf("state=%s current=%.0fmWh full=%.0fmWh design=%.0fmWh rate=%.0fmW voltage=%.3fV design_voltage=%.3fV\n",
		b.State, b.Current, b.Full, b.Design, b.ChargeRate, b.Voltage, b.DesignVoltage), nil
}
