// Package adapter defines the boundary between the battery core and the
// hardware driver that actually talks to the fuel gauge and the charger.
//
// Every hook is optional. An adapter advertises what it supports through
// Capabilities, and the core checks the set before calling a hook instead of
// assuming it is there.
package adapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/battcore/battcore/pkg/types"
)

// ErrUnsupported is returned by hooks an adapter does not implement.
var ErrUnsupported = errors.New("operation not supported by adapter")

// Capability is a single optional adapter hook.
type Capability uint8

const (
	CapFetch Capability = 1 << iota
	CapControl
	CapSetFullThreshold
	CapTemperatureFault
	CapDebugText
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapFetch, "fetch"},
	{CapControl, "control"},
	{CapSetFullThreshold, "setFullThreshold"},
	{CapTemperatureFault, "temperatureFault"},
	{CapDebugText, "debugText"},
}

// Capabilities is the set of hooks an adapter supports.
type Capabilities uint8

// Has reports whether every capability in c is present.
func (cs Capabilities) Has(c Capability) bool {
	return Capability(cs)&c == c
}

// With returns cs plus c.
func (cs Capabilities) With(c Capability) Capabilities {
	return cs | Capabilities(c)
}

func (cs Capabilities) String() string {
	var names []string
	for _, n := range capabilityNames {
		if cs.Has(n.c) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// HardwareAdapter is implemented by battery/charger drivers.
type HardwareAdapter interface {
	// Capabilities returns the hooks this adapter implements.
	Capabilities() Capabilities

	// Fetch populates s with fresh telemetry. Fields the hardware cannot
	// report are left untouched.
	Fetch(s *types.Snapshot) error
	// Control enables or disables charging.
	Control(cmd types.Command) error
	// SetFullThreshold sets the charge percentage treated as full.
	SetFullThreshold(percent int) error
	// IsTemperatureFault overrides the built-in overheat thresholds.
	IsTemperatureFault(temperatureDeciC int32) bool
	// DebugText renders a free-form diagnostic dump of the driver state.
	DebugText() (string, error)
}

// Base implements every hook as unsupported. Embed it and override what the
// hardware can do.
type Base struct{}

func (Base) Capabilities() Capabilities    { return 0 }
func (Base) Fetch(*types.Snapshot) error   { return ErrUnsupported }
func (Base) Control(types.Command) error   { return ErrUnsupported }
func (Base) SetFullThreshold(int) error    { return ErrUnsupported }
func (Base) IsTemperatureFault(int32) bool { return false }
func (Base) DebugText() (string, error)    { return "", ErrUnsupported }

// StatusError carries a negative status code returned by the hardware.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: hardware returned status %d", e.Op, e.Code)
}

// StatusCode returns the hardware status code.
func (e *StatusError) StatusCode() int { return e.Code }
