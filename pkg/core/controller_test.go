package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

func TestControllerSet(t *testing.T) {
	env := newTestEnv(t, nil)
	ctl := env.core.ctl

	require.Equal(t, types.ControlEnabled, ctl.State())

	require.NoError(t, ctl.Set(types.CommandDisable))
	assert.Equal(t, types.ControlDisabled, ctl.State())

	require.NoError(t, ctl.Set(types.CommandEnable))
	assert.Equal(t, types.ControlEnabled, ctl.State())
	assert.Equal(t, []types.Command{types.CommandDisable, types.CommandEnable}, env.sim.Commands())
}

func TestControllerRejectsInvalidCommand(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.core.ctl.Set(types.Command(2))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, env.sim.Commands())
}

func TestControllerNoHandler(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sim.Restrict(adapter.Capabilities(0).With(adapter.CapFetch))

	err := env.core.ctl.Set(types.CommandDisable)
	require.ErrorIs(t, err, ErrNoHandler)
	assert.Equal(t, types.ControlEnabled, env.core.ctl.State())
	assert.Empty(t, env.sim.Commands())
}

func TestControllerHardwareRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sim.SetControlError(&adapter.StatusError{Op: "CH0B write", Code: -5})

	err := env.core.ctl.Set(types.CommandDisable)
	require.ErrorIs(t, err, ErrHardwareRejected)

	var hre *HardwareRejectedError
	require.True(t, errors.As(err, &hre))
	assert.Equal(t, -5, hre.Code)
	assert.Equal(t, types.ControlEnabled, env.core.ctl.State(), "state must not change on failure")
}

func TestControllerPlainErrorCode(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sim.SetControlError(errors.New("bus error"))

	var hre *HardwareRejectedError
	require.True(t, errors.As(env.core.ctl.Set(types.CommandEnable), &hre))
	assert.Equal(t, -1, hre.Code)
}

func TestControllerUnregistered(t *testing.T) {
	c := New(WithLogger(quietLogger()))
	require.ErrorIs(t, c.ctl.Set(types.CommandEnable), ErrNoAdapter)
}

func TestControllerNotifiesOnChange(t *testing.T) {
	var got []types.ControlState
	c := New(WithLogger(quietLogger()), WithControlNotifier(func(s types.ControlState) {
		got = append(got, s)
	}))
	require.NoError(t, c.Register(adapter.NewSimulated(types.DefaultSnapshot())))
	defer c.Close()

	require.NoError(t, c.ctl.Set(types.CommandEnable)) // no change
	require.NoError(t, c.ctl.Set(types.CommandDisable))
	require.NoError(t, c.ctl.Set(types.CommandDisable)) // no change
	require.NoError(t, c.ctl.Set(types.CommandEnable))

	assert.Equal(t, []types.ControlState{types.ControlDisabled, types.ControlEnabled}, got)
}
