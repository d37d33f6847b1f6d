//go:build !darwin

package smc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutSMC(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Open(), ErrNoSMC)
	_, err := c.Read(BatteryChargeKey)
	assert.ErrorIs(t, err, ErrNoSMC)
	assert.NoError(t, c.Close())
}
