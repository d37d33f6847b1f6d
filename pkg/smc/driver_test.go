package smc

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func leFloat(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func newMockDriver() (*Driver, *AppleSMC) {
	c := NewMock(map[string][]byte{
		MagSafeLedKey:         {byte(LEDSystem)},
		ACPowerKey:            {0x1},
		ChargingKey1:          {0x0},
		ChargingKey2:          {0x0},
		AdapterKey1:           {0x0},
		ChargeLimitKey:        {0x0},
		BatteryChargeKey:      {73},
		BatteryVoltageKey:     le16(12650),
		BatteryCurrentKey:     le16(uint16(0xffff - 1199)), // -1200 mA
		BatteryTemperatureKey: leFloat(31.26),
		FullChargeCapacityKey: le16(4382),
	})
	return NewDriver(c), c
}

func TestDriverFetch(t *testing.T) {
	d, _ := newMockDriver()

	s := types.DefaultSnapshot()
	require.NoError(t, d.Fetch(&s))

	assert.True(t, s.Present)
	assert.True(t, s.StateReady)
	assert.Equal(t, 73, s.LevelPercent)
	assert.Equal(t, types.SourceAC, s.ChargingSource)
	assert.True(t, s.ChargingEnabled)
	assert.EqualValues(t, 12650, s.VoltageMV)
	assert.EqualValues(t, -1200, s.CurrentMA)
	assert.EqualValues(t, 1200, s.DischargeCurrentMA)
	assert.EqualValues(t, 313, s.TemperatureDeciC)
	assert.EqualValues(t, 4382000, s.FullCapacityUAh)
	assert.Equal(t, 100, s.FullLevelPercent)
}

func TestDriverFetchOnBattery(t *testing.T) {
	d, c := newMockDriver()
	require.NoError(t, c.Write(ACPowerKey, []byte{0x0}))

	s := types.DefaultSnapshot()
	require.NoError(t, d.Fetch(&s))
	assert.Equal(t, types.SourceNone, s.ChargingSource)
}

func TestDriverControl(t *testing.T) {
	d, c := newMockDriver()

	require.NoError(t, d.Control(types.CommandDisable))
	enabled, err := c.IsChargingEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	v, err := c.Read(MagSafeLedKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(LEDGreen)}, v.Bytes)

	require.NoError(t, d.Control(types.CommandEnable))
	enabled, err = c.IsChargingEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	v, err = c.Read(MagSafeLedKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(LEDOrange)}, v.Bytes)
}

func TestDriverSetFullThreshold(t *testing.T) {
	d, c := newMockDriver()

	require.NoError(t, d.SetFullThreshold(80))
	limited, err := c.IsChargeLimited()
	require.NoError(t, err)
	assert.True(t, limited)

	s := types.DefaultSnapshot()
	require.NoError(t, d.Fetch(&s))
	assert.Equal(t, 80, s.FullLevelPercent)

	require.NoError(t, d.SetFullThreshold(100))
	limited, err = c.IsChargeLimited()
	require.NoError(t, err)
	assert.False(t, limited)

	err = d.SetFullThreshold(65)
	var se *adapter.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, -22, se.StatusCode())
}

func TestDriverDebugText(t *testing.T) {
	d, _ := newMockDriver()

	text, err := d.DebugText()
	require.NoError(t, err)
	assert.Contains(t, text, "BUIC: 49\n")
	assert.Contains(t, text, "AC-W: 01\n")
}

func TestDriverCapabilities(t *testing.T) {
	d, _ := newMockDriver()

	cs := d.Capabilities()
	assert.True(t, cs.Has(adapter.CapFetch))
	assert.True(t, cs.Has(adapter.CapControl))
	assert.False(t, cs.Has(adapter.CapTemperatureFault))
	assert.False(t, d.IsTemperatureFault(900))
}

func TestDecodeLengthMismatch(t *testing.T) {
	_, err := decodeUint16([]byte{1})
	assert.Error(t, err)
	_, err = decodeFloat([]byte{1, 2})
	assert.Error(t, err)
}

func TestMockMissingKey(t *testing.T) {
	c := NewMock(map[string][]byte{ACPowerKey: {0x1}})

	v, err := c.Read(ACPowerKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1}, v.Bytes)

	_, err = c.Read(BatteryChargeKey)
	assert.ErrorIs(t, err, ErrNoData)
}
