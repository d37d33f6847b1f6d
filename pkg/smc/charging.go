package smc

import "github.com/sirupsen/logrus"

// IsChargingEnabled returns whether charging is enabled.
func (c *AppleSMC) IsChargingEnabled() (bool, error) {
	v, err := c.Read(ChargingKey1)
	if err != nil {
		return false, err
	}

	ret := len(v.Bytes) == 1 && v.Bytes[0] == 0x0
	logrus.Tracef("IsChargingEnabled returned %t", ret)

	return ret, nil
}

// EnableCharging enables charging.
func (c *AppleSMC) EnableCharging() error {
	logrus.Tracef("EnableCharging called")

	err := c.Write(ChargingKey1, []byte{0x0})
	if err != nil {
		return err
	}

	err = c.Write(ChargingKey2, []byte{0x0})
	if err != nil {
		return err
	}

	return c.EnableAdapter()
}

// DisableCharging disables charging.
func (c *AppleSMC) DisableCharging() error {
	logrus.Tracef("DisableCharging called")

	err := c.Write(ChargingKey1, []byte{0x2})
	if err != nil {
		return err
	}

	return c.Write(ChargingKey2, []byte{0x2})
}

// IsChargeLimited returns whether the firmware 80% charge limit is on.
func (c *AppleSMC) IsChargeLimited() (bool, error) {
	v, err := c.Read(ChargeLimitKey)
	if err != nil {
		return false, err
	}
	return len(v.Bytes) == 1 && v.Bytes[0] == 0x1, nil
}

// SetChargeLimited turns the firmware 80% charge limit on or off.
func (c *AppleSMC) SetChargeLimited(limited bool) error {
	logrus.Tracef("SetChargeLimited(%t) called", limited)

	if limited {
		return c.Write(ChargeLimitKey, []byte{0x1})
	}
	return c.Write(ChargeLimitKey, []byte{0x0})
}
