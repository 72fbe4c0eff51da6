// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default auto-intrusion settings applied when the config omits them.
const (
	DefaultAutoIntervalSeconds = 5
	DefaultMinIntervalSeconds  = 1
	DefaultMaxIntervalSeconds  = 60
)

// TimelineConfig bounds the value history and intrusion markers.
type TimelineConfig struct {
	MaxSamples    int `yaml:"max_samples"`
	MaxIntrusions int `yaml:"max_intrusions"`
}

// AutoIntrusionConfig controls the simulated attacker schedule.
type AutoIntrusionConfig struct {
	Enabled            bool `yaml:"enabled"`
	IntervalSeconds    int  `yaml:"interval_s"`
	MinIntervalSeconds int  `yaml:"min_interval_s"`
	MaxIntervalSeconds int  `yaml:"max_interval_s"`
}

// Bounds returns the allowed auto-intrusion interval range in seconds,
// falling back to the 1..60 defaults for unset values.
func (a AutoIntrusionConfig) Bounds() (min, max int) {
	min = a.MinIntervalSeconds
	if min <= 0 {
		min = DefaultMinIntervalSeconds
	}
	max = a.MaxIntervalSeconds
	if max <= 0 {
		max = DefaultMaxIntervalSeconds
	}
	return min, max
}

// Interval returns the configured auto-intrusion interval in seconds,
// falling back to the default for unset values.
func (a AutoIntrusionConfig) Interval() int {
	if a.IntervalSeconds <= 0 {
		return DefaultAutoIntervalSeconds
	}
	return a.IntervalSeconds
}

// AdminConfig holds the admin UI listener settings.
type AdminConfig struct {
	Addr string `yaml:"addr"`
}

// HoneypotConfig is the root configuration for one trap instance.
type HoneypotConfig struct {
	SessionID     string              `yaml:"session_id"`
	Timeline      TimelineConfig      `yaml:"timeline"`
	AutoIntrusion AutoIntrusionConfig `yaml:"auto_intrusion"`
	Admin         AdminConfig         `yaml:"admin"`
}

// Validate checks semantic constraints the CUE schema cannot express
// across fields.
func (c *HoneypotConfig) Validate() error {
	if c.Timeline.MaxSamples < 0 {
		return fmt.Errorf("timeline.max_samples must not be negative, got %d", c.Timeline.MaxSamples)
	}
	if c.Timeline.MaxIntrusions < 0 {
		return fmt.Errorf("timeline.max_intrusions must not be negative, got %d", c.Timeline.MaxIntrusions)
	}
	min, max := c.AutoIntrusion.Bounds()
	if max < min {
		return fmt.Errorf("auto_intrusion bounds invalid: max_interval_s %d < min_interval_s %d", max, min)
	}
	if c.AutoIntrusion.Enabled {
		if iv := c.AutoIntrusion.Interval(); iv < min || iv > max {
			return fmt.Errorf("auto_intrusion.interval_s %d outside allowed range %d..%d", iv, min, max)
		}
	}
	return nil
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*HoneypotConfig, error) {
	// Validate with CUE first
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg HoneypotConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
