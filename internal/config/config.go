package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridaudit/gridaudit/internal/assess"
)

// DefaultHTTPPort is used when server.http_port is absent from the config file.
const DefaultHTTPPort = 8080

// Config is the top-level service configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Stations []Station    `yaml:"stations"`

	// Thresholds overrides the default assessment bands per metric.
	// Keys are metric identifiers ("power_factor", "voltage_imbalance", ...).
	Thresholds map[string]assess.ScaleConfig `yaml:"thresholds"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

// Station describes one monitored measurement site.
type Station struct {
	// ID is a unique, URL-safe identifier ("mvule", "clinic").
	ID string `yaml:"id"`

	// Name is the display name ("Mvule Station").
	Name string `yaml:"name"`

	// File is the path to the station's CSV measurement export.
	File string `yaml:"file"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Scales returns the assessment threshold tables with this config's
// overrides applied on top of the defaults.
func (c *Config) Scales() ([]assess.Scale, error) {
	return assess.Merge(assess.DefaultScales(), c.Thresholds)
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{HTTPPort: DefaultHTTPPort},
	}
}

func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if len(cfg.Stations) == 0 {
		return fmt.Errorf("at least one station is required")
	}
	seen := make(map[string]bool, len(cfg.Stations))
	for i, st := range cfg.Stations {
		if st.ID == "" {
			return fmt.Errorf("stations[%d]: id is required", i)
		}
		if seen[st.ID] {
			return fmt.Errorf("stations[%d]: duplicate id %q", i, st.ID)
		}
		seen[st.ID] = true
		if st.File == "" {
			return fmt.Errorf("stations[%d] %q: file is required", i, st.ID)
		}
	}
	// Fail fast on bad threshold overrides rather than at first evaluation.
	if _, err := cfg.Scales(); err != nil {
		return err
	}
	return nil
}
