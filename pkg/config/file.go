package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/battcore/battcore/pkg/utils/ptr"
)

const DefaultMQTTTopic = "battcore"

var (
	defaultFileConfig = &RawFileConfig{
		Adapter:            ptr.To(DefaultAdapter()),
		PollSchedule:       ptr.To("@every 30s"),
		AllowNonRootAccess: ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

type RawFileConfig struct {
	Adapter            *string     `json:"adapter,omitempty" yaml:"adapter,omitempty"`
	PollSchedule       *string     `json:"pollSchedule,omitempty" yaml:"pollSchedule,omitempty"`
	FullLevel          *int        `json:"fullLevel,omitempty" yaml:"fullLevel,omitempty"`
	AllowNonRootAccess *bool       `json:"allowNonRootAccess,omitempty" yaml:"allowNonRootAccess,omitempty"`
	MQTT               *MQTTConfig `json:"mqtt,omitempty" yaml:"mqtt,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	mqtt := c.MQTT()
	rawConfig := &RawFileConfig{
		Adapter:            ptr.To(c.Adapter()),
		PollSchedule:       ptr.To(c.PollSchedule()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
		MQTT:               &mqtt,
	}
	if lvl, ok := c.FullLevel(); ok {
		rawConfig.FullLevel = ptr.To(lvl)
	}

	return rawConfig, nil
}

// Validate checks the values a daemon cannot start with.
func (c *RawFileConfig) Validate() error {
	if c.Adapter != nil {
		switch *c.Adapter {
		case AdapterSMC, AdapterSystem, AdapterMock:
		default:
			return pkgerrors.Errorf("unknown adapter %q", *c.Adapter)
		}
	}
	if c.PollSchedule != nil {
		if _, err := ScheduleParser.Parse(*c.PollSchedule); err != nil {
			return pkgerrors.Wrapf(err, "invalid poll schedule %q", *c.PollSchedule)
		}
	}
	if c.FullLevel != nil && (*c.FullLevel < 1 || *c.FullLevel > 100) {
		return pkgerrors.Errorf("full level %d out of range [1, 100]", *c.FullLevel)
	}
	return nil
}

func (f *File) Adapter() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return ptr.Deref(f.c.Adapter, *defaultFileConfig.Adapter)
}

func (f *File) PollSchedule() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return ptr.Deref(f.c.PollSchedule, *defaultFileConfig.PollSchedule)
}

func (f *File) FullLevel() (int, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.c.FullLevel == nil {
		return 0, false
	}
	return *f.c.FullLevel, true
}

func (f *File) AllowNonRootAccess() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return ptr.Deref(f.c.AllowNonRootAccess, *defaultFileConfig.AllowNonRootAccess)
}

func (f *File) MQTT() MQTTConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var m MQTTConfig
	if f.c.MQTT != nil {
		m = *f.c.MQTT
	}
	if m.Topic == "" {
		m.Topic = DefaultMQTTTopic
	}
	return m
}

func (f *File) SetFullLevel(i int) {
	if i < 1 || i > 100 {
		panic("full level must be between 1 and 100")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.FullLevel = &i
}

func (f *File) SetAllowNonRootAccess(b bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowNonRootAccess = &b
}

// Raw returns a copy of the raw config.
func (f *File) Raw() RawFileConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return *f.c
}

func (f *File) isYAML() bool {
	switch strings.ToLower(filepath.Ext(f.filepath)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if f.isYAML() {
		err = yaml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	if err := conf.Validate(); err != nil {
		return pkgerrors.Wrapf(err, "invalid config in file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	var (
		b   []byte
		err error
	)
	if f.isYAML() {
		b, err = yaml.Marshal(f.c)
	} else {
		b, err = json.MarshalIndent(f.c, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config for file %s", f.filepath)
	}

	if err := os.WriteFile(f.filepath, b, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write file %s", f.filepath)
	}
	logrus.WithField("path", f.filepath).Debug("config saved")

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	fields := logrus.Fields{
		"adapter":            f.Adapter(),
		"pollSchedule":       f.PollSchedule(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"mqttBroker":         f.MQTT().Broker,
	}
	if lvl, ok := f.FullLevel(); ok {
		fields["fullLevel"] = lvl
	}
	return fields
}
