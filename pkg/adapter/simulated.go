package adapter

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/types"
)

// Simulated is an in-memory adapter. The daemon uses it when no real
// hardware backend is configured; tests use it to observe what the core asks
// the hardware to do.
type Simulated struct {
	mu       sync.Mutex
	caps     Capabilities
	snapshot types.Snapshot

	fetches    int
	commands   []types.Command
	fetchErr   error
	controlErr error
}

var _ HardwareAdapter = &Simulated{}

// NewSimulated returns a Simulated adapter supporting every capability and
// reporting s on fetch.
func NewSimulated(s types.Snapshot) *Simulated {
	return &Simulated{
		caps: Capabilities(0).
			With(CapFetch).
			With(CapControl).
			With(CapSetFullThreshold).
			With(CapTemperatureFault).
			With(CapDebugText),
		snapshot: s,
	}
}

// Restrict limits the advertised capabilities to cs.
func (a *Simulated) Restrict(cs Capabilities) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.caps = cs
}

// Update mutates the telemetry the next fetch will report.
func (a *Simulated) Update(fn func(s *types.Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.snapshot)
}

// SetFetchError makes subsequent fetches fail with err. nil clears it.
func (a *Simulated) SetFetchError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fetchErr = err
}

// SetControlError makes subsequent control calls fail with err. nil clears it.
func (a *Simulated) SetControlError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.controlErr = err
}

// Fetches returns how many fetches were served.
func (a *Simulated) Fetches() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fetches
}

// Commands returns every control command received, including failed ones.
func (a *Simulated) Commands() []types.Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]types.Command(nil), a.commands...)
}

func (a *Simulated) Capabilities() Capabilities {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.caps
}

func (a *Simulated) Fetch(s *types.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fetchErr != nil {
		return a.fetchErr
	}
	a.fetches++
	*s = a.snapshot
	return nil
}

func (a *Simulated) Control(cmd types.Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	logrus.Tracef("simulated Control(%s) called", cmd)

	a.commands = append(a.commands, cmd)
	if a.controlErr != nil {
		return a.controlErr
	}
	a.snapshot.ChargingEnabled = cmd == types.CommandEnable
	return nil
}

func (a *Simulated) SetFullThreshold(percent int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot.FullLevelPercent = percent
	return nil
}

// IsTemperatureFault reports the fault flag carried in the simulated
// telemetry, ignoring the temperature itself.
func (a *Simulated) IsTemperatureFault(int32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot.TempFault == types.TempFaultSet
}

func (a *Simulated) DebugText() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.snapshot
	return fmt.Sprintf("simulated: id=%d level=%d full_level=%d vol=%d temp=%d curr=%d src=%s chg_en=%t fetches=%d\n",
		s.BatteryID, s.LevelPercent, s.FullLevelPercent, s.VoltageMV, s.TemperatureDeciC, s.CurrentMA,
		s.ChargingSource, s.ChargingEnabled, a.fetches), nil
}
