package types

// Status is the charging status reported to the power-supply consumer.
type Status int

const (
	StatusUnknown Status = iota
	StatusCharging
	StatusDischarging
	StatusNotCharging
	StatusFull
)

func (s Status) String() string {
	switch s {
	case StatusCharging:
		return "charging"
	case StatusDischarging:
		return "discharging"
	case StatusNotCharging:
		return "notCharging"
	case StatusFull:
		return "full"
	default:
		return "unknown"
	}
}

// Health is the derived battery health.
type Health int

const (
	HealthUnknown Health = iota
	HealthGood
	HealthOverheat
)

func (h Health) String() string {
	switch h {
	case HealthGood:
		return "good"
	case HealthOverheat:
		return "overheat"
	default:
		return "unknown"
	}
}

// Technology is the battery chemistry. The core only ever reports Li-ion.
type Technology int

const (
	TechnologyUnknown Technology = 0
	TechnologyLiIon   Technology = 2
)

func (t Technology) String() string {
	if t == TechnologyLiIon {
		return "Li-ion"
	}
	return "unknown"
}
