package config

import (
	"runtime"

	"github.com/robfig/cron/v3"
)

// ScheduleParser parses poll schedules: standard five-field cron with an
// optional leading seconds field, or a descriptor such as "@every 30s".
var ScheduleParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Adapter kinds.
const (
	AdapterSMC    = "smc"
	AdapterSystem = "system"
	AdapterMock   = "mock"
)

// DefaultAdapter is the real hardware backend for the running OS: the SMC on
// macOS and the OS battery interface elsewhere.
func DefaultAdapter() string {
	if runtime.GOOS == "darwin" {
		return AdapterSMC
	}
	return AdapterSystem
}

type Config interface {
	// Adapter is the hardware backend the daemon registers with the core.
	Adapter() string
	// PollSchedule is the cron spec driving the periodic supply update.
	PollSchedule() string
	// FullLevel is the configured full threshold, and false when none is set.
	FullLevel() (int, bool)
	AllowNonRootAccess() bool
	MQTT() MQTTConfig

	SetFullLevel(int)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

// MQTTConfig configures the optional event publisher. An empty Broker
// disables it.
type MQTTConfig struct {
	Broker   string `json:"broker,omitempty" yaml:"broker,omitempty"`
	Topic    string `json:"topic,omitempty" yaml:"topic,omitempty"`
	ClientID string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}
