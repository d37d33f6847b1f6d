package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcore/battcore/pkg/utils/ptr"
)

func TestDefaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAdapter(), f.Adapter())
	assert.Equal(t, "@every 30s", f.PollSchedule())
	assert.False(t, f.AllowNonRootAccess())
	_, ok := f.FullLevel()
	assert.False(t, ok)
	assert.Equal(t, MQTTConfig{Topic: DefaultMQTTTopic}, f.MQTT())
	assert.False(t, f.MQTT().Enabled())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`adapter: smc
pollSchedule: "*/5 * * * *"
fullLevel: 80
mqtt:
  broker: tcp://localhost:1883
  clientId: laptop
`), 0644))

	f, err := NewFile(path)
	require.NoError(t, err)

	assert.Equal(t, AdapterSMC, f.Adapter())
	assert.Equal(t, "*/5 * * * *", f.PollSchedule())
	lvl, ok := f.FullLevel()
	assert.True(t, ok)
	assert.Equal(t, 80, lvl)
	assert.Equal(t, MQTTConfig{Broker: "tcp://localhost:1883", Topic: DefaultMQTTTopic, ClientID: "laptop"}, f.MQTT())
}

func TestLoadJSONAndEmpty(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"adapter":"system","allowNonRootAccess":true}`), 0644))
	f, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, AdapterSystem, f.Adapter())
	assert.True(t, f.AllowNonRootAccess())

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0644))
	f, err = NewFile(empty)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdapter(), f.Adapter())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"adapter":  `{"adapter":"acpi"}`,
		"schedule": `{"pollSchedule":"every now and then"}`,
		"level":    `{"fullLevel":0}`,
		"syntax":   `{"adapter":`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := NewFile(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			f := NewFileFromConfig(&RawFileConfig{Adapter: ptr.To(AdapterSMC)}, path)
			f.SetFullLevel(90)
			f.SetAllowNonRootAccess(true)
			require.NoError(t, f.Save())

			g, err := NewFile(path)
			require.NoError(t, err)
			assert.Equal(t, f.Raw(), g.Raw())
			assert.Equal(t, f.LogrusFields(), g.LogrusFields())
		})
	}
}

func TestSetFullLevelPanicsOutOfRange(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	assert.Panics(t, func() { f.SetFullLevel(101) })
}

func TestNewRawFileConfigFromConfig(t *testing.T) {
	f := NewFileFromConfig(&RawFileConfig{FullLevel: ptr.To(80)}, "")

	raw, err := NewRawFileConfigFromConfig(f)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdapter(), *raw.Adapter)
	assert.Equal(t, 80, *raw.FullLevel)
	assert.Equal(t, DefaultMQTTTopic, raw.MQTT.Topic)

	_, err = NewRawFileConfigFromConfig(nil)
	assert.Error(t, err)
}

func TestLoadAcceptsSecondsSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pollSchedule":"*/10 * * * * *"}`), 0644))

	f, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, "*/10 * * * * *", f.PollSchedule())
}
