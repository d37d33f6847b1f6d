package sysbattery

import (
	"errors"
	"testing"

	"github.com/distatus/battery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcore/battcore/pkg/types"
)

func stubBattery(t *testing.T, b *battery.Battery, err error) {
	t.Helper()
	orig := getBattery
	getBattery = func(int) (*battery.Battery, error) { return b, err }
	t.Cleanup(func() { getBattery = orig })
}

func TestFetchCharging(t *testing.T) {
	stubBattery(t, &battery.Battery{
		State:         battery.Charging,
		Current:       36000,
		Full:          48000,
		Design:        52000,
		ChargeRate:    24000,
		Voltage:       12,
		DesignVoltage: 11.4,
	}, nil)

	s := types.DefaultSnapshot()
	require.NoError(t, New(0).Fetch(&s))

	assert.Equal(t, 75, s.LevelPercent)
	assert.Equal(t, types.SourceAC, s.ChargingSource)
	assert.True(t, s.ChargingEnabled)
	assert.EqualValues(t, 12000, s.VoltageMV)
	assert.EqualValues(t, 2000, s.CurrentMA)
	assert.EqualValues(t, 0, s.DischargeCurrentMA)
	assert.EqualValues(t, 4210526, s.FullCapacityUAh)
}

func TestFetchStates(t *testing.T) {
	tests := []struct {
		state   battery.State
		source  types.ChargingSource
		enabled bool
	}{
		{battery.Full, types.SourceAC, true},
		{battery.Unknown, types.SourceAC, false},
		{battery.Discharging, types.SourceNone, false},
		{battery.Empty, types.SourceNone, false},
	}
	for _, tt := range tests {
		stubBattery(t, &battery.Battery{State: tt.state, Current: 10, Full: 100}, nil)

		s := types.DefaultSnapshot()
		require.NoError(t, New(0).Fetch(&s))
		assert.Equal(t, tt.source, s.ChargingSource, tt.state)
		assert.Equal(t, tt.enabled, s.ChargingEnabled, tt.state)
	}
}

func TestFetchPartial(t *testing.T) {
	// Linux reports "Not charging" as an unparsable state.
	stubBattery(t, &battery.Battery{State: battery.Unknown, Current: 30, Full: 60},
		battery.ErrPartial{State: errors.New("Invalid state `Not charging`")})

	s := types.DefaultSnapshot()
	require.NoError(t, New(0).Fetch(&s))
	assert.Equal(t, 50, s.LevelPercent)
	assert.Equal(t, types.SourceAC, s.ChargingSource)
	assert.False(t, s.ChargingEnabled)

	stubBattery(t, &battery.Battery{}, battery.ErrPartial{Full: errors.New("no energy_full")})
	s = types.DefaultSnapshot()
	require.Error(t, New(0).Fetch(&s))
	assert.Equal(t, types.DefaultSnapshot(), s)
}

func TestFetchDischargingCurrent(t *testing.T) {
	stubBattery(t, &battery.Battery{
		State:      battery.Discharging,
		Current:    20000,
		Full:       40000,
		ChargeRate: 6000,
		Voltage:    12,
	}, nil)

	s := types.DefaultSnapshot()
	require.NoError(t, New(0).Fetch(&s))
	assert.EqualValues(t, -500, s.CurrentMA)
	assert.EqualValues(t, 500, s.DischargeCurrentMA)
}

func TestFetchError(t *testing.T) {
	stubBattery(t, nil, errors.New("no battery"))

	s := types.DefaultSnapshot()
	err := New(0).Fetch(&s)
	require.Error(t, err)
	assert.Equal(t, types.DefaultSnapshot(), s)
}

func TestDebugText(t *testing.T) {
	r := New(0)
	text, err := r.DebugText()
	require.NoError(t, err)
	assert.Contains(t, text, "no battery info")

	stubBattery(t, &battery.Battery{State: battery.Charging, Full: 100, Voltage: 12.5}, nil)
	s := types.DefaultSnapshot()
	require.NoError(t, r.Fetch(&s))

	text, err = r.DebugText()
	require.NoError(t, err)
	assert.Contains(t, text, "voltage=12.500V")
}
