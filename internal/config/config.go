// Package config loads the daemon configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the file omits a value.
const (
	DefaultPrefix       = "vorwerk"
	DefaultDriver       = "simulated"
	DefaultPollInterval = time.Minute
)

// Duration is a time.Duration that unmarshals from YAML strings like "90s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the daemon configuration.
type Config struct {
	MQTT          MQTTConfig    `yaml:"mqtt"`
	PollInterval  Duration      `yaml:"poll_interval"`
	MetricsListen string        `yaml:"metrics_listen"`
	Robots        []RobotConfig `yaml:"robots"`
}

// MQTTConfig describes the broker connection.
type MQTTConfig struct {
	// URL of the broker, e.g. tcp://127.0.0.1:1883.
	URL string `yaml:"url"`

	// Prefix for all topics published by this bridge, e.g. "vorwerk".
	Prefix string `yaml:"prefix"`
}

// RobotConfig describes one robot. Secret and Endpoint are passed through to
// the selected driver unchanged.
type RobotConfig struct {
	Driver   string            `yaml:"driver"`
	Name     string            `yaml:"name"`
	Serial   string            `yaml:"serial"`
	Secret   string            `yaml:"secret"`
	Endpoint string            `yaml:"endpoint"`
	Settings map[string]string `yaml:"settings"`
}

// Load reads and validates the configuration file.
func Load(path string, logger *zap.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.MQTT.Prefix == "" {
		cfg.MQTT.Prefix = DefaultPrefix
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(DefaultPollInterval)
	}
	for i := range cfg.Robots {
		if cfg.Robots[i].Driver == "" {
			cfg.Robots[i].Driver = DefaultDriver
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.String("path", path),
		zap.Int("robots", len(cfg.Robots)),
		zap.Duration("poll_interval", cfg.PollInterval.Std()))

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MQTT.URL == "" {
		return fmt.Errorf("mqtt.url must be set")
	}
	if len(c.Robots) == 0 {
		return fmt.Errorf("at least one robot must be configured")
	}
	seen := make(map[string]bool)
	for i, r := range c.Robots {
		if r.Serial == "" {
			return fmt.Errorf("robots[%d]: serial must be set", i)
		}
		if seen[r.Serial] {
			return fmt.Errorf("robots[%d]: duplicate serial %q", i, r.Serial)
		}
		seen[r.Serial] = true
	}
	return nil
}
