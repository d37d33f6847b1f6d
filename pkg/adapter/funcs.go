package adapter

import "github.com/battcore/battcore/pkg/types"

// Funcs is a HardwareAdapter assembled from individual hooks. A nil hook is
// reported as unsupported.
type Funcs struct {
	FetchFunc            func(s *types.Snapshot) error
	ControlFunc          func(cmd types.Command) error
	SetFullThresholdFunc func(percent int) error
	TemperatureFaultFunc func(temperatureDeciC int32) bool
	DebugTextFunc        func() (string, error)
}

var _ HardwareAdapter = &Funcs{}

func (f *Funcs) Capabilities() Capabilities {
	var cs Capabilities
	if f.FetchFunc != nil {
		cs = cs.With(CapFetch)
	}
	if f.ControlFunc != nil {
		cs = cs.With(CapControl)
	}
	if f.SetFullThresholdFunc != nil {
		cs = cs.With(CapSetFullThreshold)
	}
	if f.TemperatureFaultFunc != nil {
		cs = cs.With(CapTemperatureFault)
	}
	if f.DebugTextFunc != nil {
		cs = cs.With(CapDebugText)
	}
	return cs
}

func (f *Funcs) Fetch(s *types.Snapshot) error {
	if f.FetchFunc == nil {
		return ErrUnsupported
	}
	return f.FetchFunc(s)
}

func (f *Funcs) Control(cmd types.Command) error {
	if f.ControlFunc == nil {
		return ErrUnsupported
	}
	return f.ControlFunc(cmd)
}

func (f *Funcs) SetFullThreshold(percent int) error {
	if f.SetFullThresholdFunc == nil {
		return ErrUnsupported
	}
	return f.SetFullThresholdFunc(percent)
}

func (f *Funcs) IsTemperatureFault(temperatureDeciC int32) bool {
	if f.TemperatureFaultFunc == nil {
		return false
	}
	return f.TemperatureFaultFunc(temperatureDeciC)
}

func (f *Funcs) DebugText() (string, error) {
	if f.DebugTextFunc == nil {
		return "", ErrUnsupported
	}
	return f.DebugTextFunc()
}
