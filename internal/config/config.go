// Package config provides configuration loading and validation for pullrefresh.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"pullrefresh/internal/haptic"
	"pullrefresh/internal/pull"
	"pullrefresh/internal/surface"
	"pullrefresh/internal/tick"
)

// Config represents the application configuration.
type Config struct {
	Refresh   RefreshConfig   `yaml:"refresh"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Demo      DemoConfig      `yaml:"demo"`
	Log       LogConfig       `yaml:"log"`
}

// RefreshConfig contains the pull state machine settings.
type RefreshConfig struct {
	TriggerDistance float64       `yaml:"trigger_distance" env:"PULLREFRESH_REFRESH_TRIGGER_DISTANCE"`
	TickInterval    time.Duration `yaml:"tick_interval" env:"PULLREFRESH_REFRESH_TICK_INTERVAL"`
	SettleDuration  time.Duration `yaml:"settle_duration" env:"PULLREFRESH_REFRESH_SETTLE_DURATION"`
}

// IndicatorConfig contains cosmetic settings for the indicator.
type IndicatorConfig struct {
	Color     string `yaml:"color" env:"PULLREFRESH_INDICATOR_COLOR"`
	HintText  string `yaml:"hint_text" env:"PULLREFRESH_INDICATOR_HINT_TEXT"`
	HintColor string `yaml:"hint_color" env:"PULLREFRESH_INDICATOR_HINT_COLOR"`
	Haptic    string `yaml:"haptic" env:"PULLREFRESH_INDICATOR_HAPTIC"`
}

// DemoConfig contains settings for the simulated refresh work.
type DemoConfig struct {
	RefreshDuration time.Duration `yaml:"refresh_duration" env:"PULLREFRESH_DEMO_REFRESH_DURATION"`
	FailureRate     float64       `yaml:"failure_rate" env:"PULLREFRESH_DEMO_FAILURE_RATE"`
	Items           int           `yaml:"items" env:"PULLREFRESH_DEMO_ITEMS"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"PULLREFRESH_LOG_LEVEL"`
	File  string `yaml:"file" env:"PULLREFRESH_LOG_FILE"`
}

// DefaultConfigPath is the default path to look for the configuration file.
const DefaultConfigPath = "pullrefresh.yaml"

// Default values for optional configuration fields.
const (
	DefaultColor           = "#808080"
	DefaultHintColor       = "#808080"
	DefaultHaptic          = "medium"
	DefaultRefreshDuration = 1500 * time.Millisecond
	DefaultItems           = 3
	DefaultLogLevel        = "info"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads and parses the configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, overlays PULLREFRESH_* environment
// variables, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	// Apply defaults for optional fields
	cfg.applyDefaults()

	// Validate
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads configuration from the default path. A missing default
// file is not an error: the environment and defaults are used instead.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return Parse(nil)
	}
	return cfg, err
}

// applyDefaults sets default values for optional configuration fields.
func (c *Config) applyDefaults() {
	if c.Refresh.TriggerDistance == 0 {
		c.Refresh.TriggerDistance = pull.DefaultTriggerDistance
	}
	if c.Refresh.TickInterval == 0 {
		c.Refresh.TickInterval = tick.DefaultInterval
	}
	if c.Refresh.SettleDuration == 0 {
		c.Refresh.SettleDuration = surface.DefaultSettleDuration
	}
	if c.Indicator.Color == "" {
		c.Indicator.Color = DefaultColor
	}
	if c.Indicator.HintColor == "" {
		c.Indicator.HintColor = DefaultHintColor
	}
	if c.Indicator.Haptic == "" {
		c.Indicator.Haptic = DefaultHaptic
	}
	if c.Demo.RefreshDuration == 0 {
		c.Demo.RefreshDuration = DefaultRefreshDuration
	}
	if c.Demo.Items == 0 {
		c.Demo.Items = DefaultItems
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// validate fails fast on malformed settings.
func (c *Config) validate() error {
	if !(c.Refresh.TriggerDistance > 0) || math.IsInf(c.Refresh.TriggerDistance, 1) {
		return fmt.Errorf("%w: refresh.trigger_distance must be positive, got %v", ErrInvalid, c.Refresh.TriggerDistance)
	}
	if c.Refresh.TickInterval <= 0 {
		return fmt.Errorf("%w: refresh.tick_interval must be positive, got %v", ErrInvalid, c.Refresh.TickInterval)
	}
	if c.Refresh.SettleDuration <= 0 {
		return fmt.Errorf("%w: refresh.settle_duration must be positive, got %v", ErrInvalid, c.Refresh.SettleDuration)
	}
	if _, err := haptic.ParseStyle(c.Indicator.Haptic); err != nil {
		return fmt.Errorf("%w: indicator.haptic: %w", ErrInvalid, err)
	}
	if c.Demo.RefreshDuration < 0 {
		return fmt.Errorf("%w: demo.refresh_duration must not be negative", ErrInvalid)
	}
	if !(c.Demo.FailureRate >= 0 && c.Demo.FailureRate <= 1) {
		return fmt.Errorf("%w: demo.failure_rate must be within [0,1], got %v", ErrInvalid, c.Demo.FailureRate)
	}
	if c.Demo.Items < 0 {
		return fmt.Errorf("%w: demo.items must not be negative", ErrInvalid)
	}
	return nil
}

// HapticStyle returns the parsed haptic style.
func (c *Config) HapticStyle() haptic.Style {
	style, err := haptic.ParseStyle(c.Indicator.Haptic)
	if err != nil {
		return haptic.DefaultStyle
	}
	return style
}

// SurfaceOptions maps the refresh settings onto surface options.
func (c *Config) SurfaceOptions(id string) surface.Options {
	return surface.Options{
		ID:              id,
		TriggerDistance: c.Refresh.TriggerDistance,
		TickInterval:    c.Refresh.TickInterval,
		SettleDuration:  c.Refresh.SettleDuration,
		HapticStyle:     c.HapticStyle(),
	}
}
