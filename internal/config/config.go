package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the dynconv.yaml configuration.
type Config struct {
	// PolymorphicLimit is the number of rules a call site caches before it
	// becomes megamorphic. Zero means DefaultPolymorphicLimit.
	PolymorphicLimit int `yaml:"polymorphic_limit,omitempty"`

	// Metrics enables the gmetric operation counter.
	Metrics bool `yaml:"metrics,omitempty"`

	// MetricName is the operation name the counter is registered under.
	MetricName string `yaml:"metric_name,omitempty"`

	// Trace is the path of a sqlite database receiving one row per bind.
	// Relative paths are resolved against the configuration file.
	Trace string `yaml:"trace,omitempty"`

	// Verbose prints resolution decisions to stderr.
	Verbose bool `yaml:"verbose,omitempty"`

	// DisableInterop turns off the host value binder.
	DisableInterop bool `yaml:"disable_interop,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a dynconv.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	if cfg.Trace != "" && cfg.Trace != ":memory:" && !filepath.IsAbs(cfg.Trace) {
		cfg.Trace = filepath.Join(filepath.Dir(path), cfg.Trace)
	}
	return cfg, nil
}

// ParseConfig parses dynconv.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for dynconv.yaml starting from dir and walking up.
// Returns "" if no configuration file is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.PolymorphicLimit < 0 {
		return fmt.Errorf("%s: polymorphic_limit must not be negative, got %d", path, c.PolymorphicLimit)
	}
	if strings.ContainsAny(c.MetricName, " /\t") {
		return fmt.Errorf("%s: metric_name %q must not contain spaces or slashes", path, c.MetricName)
	}
	if c.MetricName != "" && !c.Metrics {
		return fmt.Errorf("%s: metric_name is set but metrics is disabled", path)
	}
	return nil
}

// setDefaults fills in default values.
func (c *Config) setDefaults() {
	if c.PolymorphicLimit == 0 {
		c.PolymorphicLimit = DefaultPolymorphicLimit
	}
	if c.Metrics && c.MetricName == "" {
		c.MetricName = DefaultMetricName
	}
}
