package smc

// MagSafeLedState is a value of the MagSafe LED key.
type MagSafeLedState uint8

const (
	// LEDSystem hands the LED back to the firmware.
	LEDSystem MagSafeLedState = 0x00
	LEDGreen  MagSafeLedState = 0x03
	LEDOrange MagSafeLedState = 0x04
)

// HasMagSafe reports whether the machine exposes a MagSafe LED.
func (c *AppleSMC) HasMagSafe() bool {
	_, err := c.Read(MagSafeLedKey)
	return err == nil
}

// ShowChargerState lights the MagSafe LED orange while the charger is
// enabled and green while it is inhibited.
func (c *AppleSMC) ShowChargerState(enabled bool) error {
	state := LEDGreen
	if enabled {
		state = LEDOrange
	}
	return c.Write(MagSafeLedKey, []byte{byte(state)})
}
