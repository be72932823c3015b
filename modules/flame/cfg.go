package flame

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanet-platform/flame/common/go/logging"
	"github.com/yanet-platform/flame/modules/flame/internal/rtable"
)

// Config is the configuration of the FLAME routing module.
type Config struct {
	// Logging configures the logging subsystem.
	Logging logging.Config `yaml:"logging"`
	// RTable configures the routing table.
	RTable RTableConfig `yaml:"rtable"`
	// MetricsEndpoint is the address to expose prometheus metrics on.
	//
	// Empty value disables the endpoint.
	MetricsEndpoint string `yaml:"metrics_endpoint"`
}

// RTableConfig configures the routing table.
type RTableConfig struct {
	// Lifetime is how long an accepted path stays valid unless confirmed.
	Lifetime time.Duration `yaml:"lifetime"`
	// SweepPeriod is the time interval between expired routes cleanups.
	SweepPeriod time.Duration `yaml:"sweep_period"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		RTable: RTableConfig{
			Lifetime:    rtable.DefaultLifetime,
			SweepPeriod: rtable.DefaultSweepPeriod,
		},
		MetricsEndpoint: "",
	}
}

// LoadConfig loads configuration from a YAML file at the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with default configuration.
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (m *Config) Validate() error {
	if m.RTable.Lifetime <= 0 {
		return fmt.Errorf("rtable.lifetime must be positive, got %s", m.RTable.Lifetime)
	}
	if m.RTable.SweepPeriod <= 0 {
		return fmt.Errorf("rtable.sweep_period must be positive, got %s", m.RTable.SweepPeriod)
	}

	return nil
}
