package types

import "fmt"

// Property is a power-supply property served by the core.
type Property string

const (
	PropStatus     Property = "status"
	PropHealth     Property = "health"
	PropPresent    Property = "present"
	PropTechnology Property = "technology"
	PropCapacity   Property = "capacity"
)

// Properties lists every supported property in reporting order.
var Properties = []Property{PropStatus, PropHealth, PropPresent, PropTechnology, PropCapacity}

// Attr is a raw telemetry field exposed verbatim.
type Attr string

const (
	AttrBattID          Attr = "batt_id"
	AttrBattVol         Attr = "batt_vol"
	AttrBattTemp        Attr = "batt_temp"
	AttrBattCurrent     Attr = "batt_current"
	AttrChargingSource  Attr = "charging_source"
	AttrChargingEnabled Attr = "charging_enabled"
	AttrFullBat         Attr = "full_bat"
	AttrOverVchg        Attr = "over_vchg"
)

// Attrs lists every raw attribute in reporting order.
var Attrs = []Attr{
	AttrBattID,
	AttrBattVol,
	AttrBattTemp,
	AttrBattCurrent,
	AttrChargingSource,
	AttrChargingEnabled,
	AttrFullBat,
	AttrOverVchg,
}

// Supply identifies one of the registered power supplies.
type Supply int

const (
	SupplyBattery Supply = iota
	SupplyUSB
	SupplyAC
	SupplyWireless
)

var supplyNames = map[Supply]string{
	SupplyBattery:  "battery",
	SupplyUSB:      "usb",
	SupplyAC:       "ac",
	SupplyWireless: "wireless",
}

func (s Supply) String() string {
	if n, ok := supplyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Supply(%d)", int(s))
}

// ParseSupply maps a supply name back to its Supply.
func ParseSupply(name string) (Supply, error) {
	for s, n := range supplyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown supply %q", name)
}

// PropertyValue is a property reading together with its textual form.
type PropertyValue struct {
	Property Property `json:"property"`
	Value    int      `json:"value"`
	Text     string   `json:"text"`
}
