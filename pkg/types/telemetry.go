package types

// ChargingSource is the power source feeding the battery, as reported by the
// hardware adapter.
type ChargingSource int8

const (
	SourceUnknown  ChargingSource = -1
	SourceNone     ChargingSource = 0 // running on battery
	SourceUSB      ChargingSource = 1
	SourceAC       ChargingSource = 2
	SourceAC9V     ChargingSource = 3
	SourceWireless ChargingSource = 4
)

func (s ChargingSource) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceUSB:
		return "usb"
	case SourceAC:
		return "ac"
	case SourceAC9V:
		return "ac9v"
	case SourceWireless:
		return "wireless"
	default:
		return "unknown"
	}
}

// External reports whether s is one of the wired or wireless chargers.
func (s ChargingSource) External() bool {
	switch s {
	case SourceUSB, SourceAC, SourceAC9V, SourceWireless:
		return true
	}
	return false
}

// TempFault is the adapter's tri-state temperature fault flag.
type TempFault int8

const (
	TempFaultUnset TempFault = -1
	TempFaultClear TempFault = 0
	TempFaultSet   TempFault = 1
)

// UnknownBatteryID marks a missing battery or an unidentified charger.
const UnknownBatteryID uint8 = 255

// Snapshot is the single battery telemetry record kept by the core.
// Voltage is in mV, temperature in tenths of a degree Celsius, currents in mA
// and capacity in µAh.
type Snapshot struct {
	Present            bool           `json:"present"`
	BatteryID          uint8          `json:"battId"`
	VoltageMV          int32          `json:"voltageMv"`
	TemperatureDeciC   int32          `json:"temperatureDeciC"`
	CurrentMA          int32          `json:"currentMa"`
	DischargeCurrentMA int32          `json:"dischargeCurrentMa"`
	ChargingSource     ChargingSource `json:"chargingSource"`
	ChargingEnabled    bool           `json:"chargingEnabled"`
	OverVchg           int32          `json:"overVchg"`
	LevelPercent       int            `json:"levelPercent"`
	FullLevelPercent   int            `json:"fullLevelPercent"`
	FullCapacityUAh    int32          `json:"fullCapacityUah"`
	TempFault          TempFault      `json:"tempFault"`
	StateReady         bool           `json:"stateReady"`
}

// DefaultSnapshot returns the values the core starts with before the first
// successful fetch.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Present:          true,
		BatteryID:        1,
		VoltageMV:        4000,
		TemperatureDeciC: 285,
		CurrentMA:        162,
		ChargingSource:   SourceNone,
		LevelPercent:     66,
		FullLevelPercent: 100,
		FullCapacityUAh:  1580000,
		TempFault:        TempFaultUnset,
		StateReady:       false,
	}
}

// EffectiveSource applies the unknown-battery override: a snapshot carrying
// UnknownBatteryID is always treated as SourceUnknown.
func (s Snapshot) EffectiveSource() ChargingSource {
	if s.BatteryID == UnknownBatteryID {
		return SourceUnknown
	}
	return s.ChargingSource
}

// Normalize clamps the percentage fields into their valid ranges.
func (s *Snapshot) Normalize() {
	s.LevelPercent = clamp(s.LevelPercent, 0, 100)
	s.FullLevelPercent = clamp(s.FullLevelPercent, 1, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
