package daemon

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/core"
	"github.com/battcore/battcore/pkg/events"
	"github.com/battcore/battcore/pkg/types"
	"github.com/battcore/battcore/pkg/utils/ptr"
)

func TestNewAdapter(t *testing.T) {
	log, hook := test.NewNullLogger()

	a, closeFn, err := newAdapter(config.AdapterMock, log)
	require.NoError(t, err)
	assert.True(t, a.Capabilities().Has(adapter.CapControl))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	closeFn()

	hook.Reset()
	a, closeFn, err = newAdapter(config.AdapterSystem, log)
	require.NoError(t, err)
	assert.False(t, a.Capabilities().Has(adapter.CapControl))
	assert.Empty(t, hook.AllEntries())
	closeFn()

	_, _, err = newAdapter("acpi", log)
	assert.Error(t, err)
}

func TestReenableChargingOnShutdown(t *testing.T) {
	log, _ := test.NewNullLogger()
	sim := adapter.NewSimulated(types.DefaultSnapshot())
	c := newCore(events.NewEventHub(), log)
	require.NoError(t, c.Register(sim))

	require.NoError(t, c.SetChargerTimer(600))
	c.Close()
	reenableCharging(c, log)

	assert.Equal(t, types.ControlEnabled, c.ChargerControlState())
	assert.Equal(t, []types.Command{types.CommandDisable, types.CommandEnable}, sim.Commands())

	// Nothing to do when charging is already enabled.
	reenableCharging(c, log)
	assert.Len(t, sim.Commands(), 2)
}

func TestApplyFullLevel(t *testing.T) {
	log, _ := test.NewNullLogger()
	sim := adapter.NewSimulated(types.DefaultSnapshot())
	c := newCore(events.NewEventHub(), log)
	require.NoError(t, c.Register(sim))
	defer c.Close()

	applyFullLevel(c, config.NewFileFromConfig(&config.RawFileConfig{FullLevel: ptr.To(85)}, ""), log)
	assert.Equal(t, 85, c.Snapshot().FullLevelPercent)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{pkgerrors.Wrap(core.ErrInvalidInput, "charger timer 70000"), http.StatusBadRequest},
		{core.ErrNoHandler, http.StatusServiceUnavailable},
		{core.ErrNoAdapter, http.StatusServiceUnavailable},
		{&core.HardwareRejectedError{Op: "charger enable", Code: -5}, http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, httpStatus(tt.err), tt.err.Error())
	}
}
