package core

import "github.com/battcore/battcore/pkg/types"

// Overheat thresholds in tenths of a degree Celsius, used when the adapter
// has no temperature fault predicate.
const (
	OverheatAboveDeciC = 480
	OverheatBelowDeciC = 0
)

// Resolve derives the charging status from a telemetry snapshot and the
// charge-full latch, and returns the latch value to carry forward.
//
// The unknown-battery override is applied before looking at the source, and
// the latch is only honoured when the full level is 100%.
func Resolve(s types.Snapshot, fullLatch bool) (types.Status, bool) {
	switch src := s.EffectiveSource(); {
	case src == types.SourceNone:
		return types.StatusNotCharging, false
	case src.External():
		level := s.LevelPercent
		if fullLatch && s.FullLevelPercent == 100 {
			level = 100
		}

		full := level == 100
		switch {
		case full:
			return types.StatusFull, true
		case s.ChargingEnabled:
			return types.StatusCharging, false
		default:
			return types.StatusDischarging, false
		}
	default:
		return types.StatusUnknown, fullLatch
	}
}

// ResolveHealth classifies the battery temperature. A non-nil fault
// predicate replaces the built-in thresholds entirely.
func ResolveHealth(temperatureDeciC int32, fault func(int32) bool) types.Health {
	if fault != nil {
		if fault(temperatureDeciC) {
			return types.HealthOverheat
		}
		return types.HealthGood
	}
	if temperatureDeciC >= OverheatAboveDeciC || temperatureDeciC <= OverheatBelowDeciC {
		return types.HealthOverheat
	}
	return types.HealthGood
}
