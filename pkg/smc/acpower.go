package smc

import "github.com/sirupsen/logrus"

// IsPluggedIn returns whether the device is plugged in.
func (c *AppleSMC) IsPluggedIn() (bool, error) {
	v, err := c.Read(ACPowerKey)
	if err != nil {
		return false, err
	}

	ret := len(v.Bytes) == 1 && int8(v.Bytes[0]) > 0
	logrus.Tracef("IsPluggedIn returned %t", ret)

	return ret, nil
}

// EnableAdapter lets the power adapter feed the system.
func (c *AppleSMC) EnableAdapter() error {
	return c.Write(AdapterKey1, []byte{0x0})
}
