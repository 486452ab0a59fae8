package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerLaunchpadX    ControllerType = "launchpad-x"
	ControllerLaunchpadMini ControllerType = "launchpad-mini"
	ControllerKnobs         ControllerType = "knobs" // CC pots/CVs, notes as V/OCT, factory SysEx
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	PortName     string         `json:"portName"`
	Type         ControllerType `json:"type"`
	AutoConnect  bool           `json:"autoConnect"`
	InputChannel int            `json:"inputChannel,omitempty"` // knobs only, 0 = omni
}

// SynthOutputConfig defines where the engine parameters are sent
type SynthOutputConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  int    `json:"channel,omitempty"`
}

// UIConfig stores front panel preferences
type UIConfig struct {
	PalettePath string `json:"palettePath,omitempty"` // GPL palette for LED colours
	LEDFPS      int    `json:"ledFps,omitempty"`
}

// TickConfig sets the control rate
type TickConfig struct {
	RateHz int `json:"rateHz"`
}

// StorageConfig selects where settings are persisted
type StorageConfig struct {
	Backend string `json:"backend"` // "file", "pebble" or "memory"
	Dir     string `json:"dir,omitempty"`
}

// ProbeConfig tunes normalization detection for the hardware's noise floor
type ProbeConfig struct {
	SequenceLength    int `json:"sequenceLength"`
	MismatchThreshold int `json:"mismatchThreshold"`
}

// GestureConfig sets switch timings, in switch reads and LED frames
type GestureConfig struct {
	LongPressTicks      int `json:"longPressTicks"`
	DisplayTimeoutTicks int `json:"displayTimeoutTicks"`
}

// Config is the main configuration structure
type Config struct {
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	SynthOutput SynthOutputConfig  `json:"synthOutput,omitempty"`
	UI          UIConfig           `json:"ui,omitempty"`
	Tick        TickConfig         `json:"tick"`
	Storage     StorageConfig      `json:"storage"`
	Probe       ProbeConfig        `json:"probe"`
	Gestures    GestureConfig      `json:"gestures"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpadX,
				AutoConnect: true,
			},
		},
		UI: UIConfig{
			LEDFPS: 30,
		},
		Tick: TickConfig{RateHz: 1000},
		Storage: StorageConfig{
			Backend: "file",
		},
		Probe: ProbeConfig{
			SequenceLength:    32,
			MismatchThreshold: 2,
		},
		Gestures: GestureConfig{
			LongPressTicks:      2000,
			DisplayTimeoutTicks: 3000,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-voicectl"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// StorageDir is the settings directory, defaulting to <config dir>/settings.
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file. Fields missing from the file keep their
// defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the controller cannot run with.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("config: %s must be positive, got %d", name, v))
		}
	}
	positive("tick.rateHz", c.Tick.RateHz)
	positive("ui.ledFps", c.UI.LEDFPS)
	positive("probe.sequenceLength", c.Probe.SequenceLength)
	positive("probe.mismatchThreshold", c.Probe.MismatchThreshold)
	positive("gestures.longPressTicks", c.Gestures.LongPressTicks)
	positive("gestures.displayTimeoutTicks", c.Gestures.DisplayTimeoutTicks)

	switch c.Storage.Backend {
	case "file", "pebble", "memory":
	default:
		errs = append(errs, fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend))
	}
	if c.Probe.MismatchThreshold > c.Probe.SequenceLength {
		errs = append(errs, fmt.Errorf("config: probe.mismatchThreshold %d exceeds sequenceLength %d",
			c.Probe.MismatchThreshold, c.Probe.SequenceLength))
	}
	if c.SynthOutput.Channel < 0 || c.SynthOutput.Channel > 15 {
		errs = append(errs, fmt.Errorf("config: synthOutput.channel %d out of range 0-15", c.SynthOutput.Channel))
	}
	return errors.Join(errs...)
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			c.Controllers[i] = ctrl
			return
		}
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// AutoConnectControllers returns controllers with autoConnect enabled
func (c *Config) AutoConnectControllers() []ControllerConfig {
	var result []ControllerConfig
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl)
		}
	}
	return result
}
