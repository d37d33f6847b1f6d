package smc

// SMC keys used on Apple Silicon.
const (
	MagSafeLedKey    = "ACLC"
	ACPowerKey       = "AC-W"
	ChargingKey1     = "CH0B"
	ChargingKey2     = "CH0C"
	AdapterKey1      = "CH0I"
	ChargeLimitKey   = "CHWA"
	BatteryChargeKey = "BUIC"

	BatteryVoltageKey     = "B0AV"
	BatteryCurrentKey     = "B0AC"
	BatteryTemperatureKey = "TB0T"
	FullChargeCapacityKey = "B0FC"
)

var allKeys = []string{
	MagSafeLedKey,
	ACPowerKey,
	ChargingKey1,
	ChargingKey2,
	AdapterKey1,
	ChargeLimitKey,
	BatteryChargeKey,
	BatteryVoltageKey,
	BatteryCurrentKey,
	BatteryTemperatureKey,
	FullChargeCapacityKey,
}
