package smc

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

// GetBatteryCharge returns the battery charge in percent.
func (c *AppleSMC) GetBatteryCharge() (int, error) {
	v, err := c.Read(BatteryChargeKey)
	if err != nil {
		return 0, err
	}

	charge, err := decodeUint8(v.Bytes)
	if err != nil {
		return 0, pkgerrors.Wrap(err, BatteryChargeKey)
	}
	return int(charge), nil
}

// GetBatteryVoltage returns the battery voltage in mV.
func (c *AppleSMC) GetBatteryVoltage() (int32, error) {
	v, err := c.Read(BatteryVoltageKey)
	if err != nil {
		return 0, err
	}

	mv, err := decodeUint16(v.Bytes)
	if err != nil {
		return 0, pkgerrors.Wrap(err, BatteryVoltageKey)
	}
	return int32(mv), nil
}

// GetBatteryCurrent returns the battery current in mA. It is negative while
// discharging.
func (c *AppleSMC) GetBatteryCurrent() (int32, error) {
	v, err := c.Read(BatteryCurrentKey)
	if err != nil {
		return 0, err
	}

	ma, err := decodeInt16(v.Bytes)
	if err != nil {
		return 0, pkgerrors.Wrap(err, BatteryCurrentKey)
	}
	return int32(ma), nil
}

// GetBatteryTemperature returns the battery temperature in tenths of a
// degree Celsius.
func (c *AppleSMC) GetBatteryTemperature() (int32, error) {
	v, err := c.Read(BatteryTemperatureKey)
	if err != nil {
		return 0, err
	}

	celsius, err := decodeFloat(v.Bytes)
	if err != nil {
		return 0, pkgerrors.Wrap(err, BatteryTemperatureKey)
	}
	return int32(math.Round(celsius * 10)), nil
}

// GetFullChargeCapacity returns the full charge capacity in µAh.
func (c *AppleSMC) GetFullChargeCapacity() (int32, error) {
	v, err := c.Read(FullChargeCapacityKey)
	if err != nil {
		return 0, err
	}

	mah, err := decodeUint16(v.Bytes)
	if err != nil {
		return 0, pkgerrors.Wrap(err, FullChargeCapacityKey)
	}
	return int32(mah) * 1000, nil
}
