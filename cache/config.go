package cache

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NoExpiry disables TTL expiry for a store. Entries under such a store are
// removed only by capacity eviction, Delete, or Clear.
const NoExpiry time.Duration = -1

// Defaults applied by DefaultConfig and by YAML decoding for omitted fields.
const (
	DefaultMaxSize = 100
	DefaultTTL     = time.Hour
)

// Config configures a single Store.
type Config struct {
	// MaxSize is the maximum number of entries the store may hold.
	// Must be at least 1; there is no unbounded mode.
	MaxSize int

	// TTL is the maximum age after which a read treats an entry as absent.
	// Must be positive, or NoExpiry to disable expiry.
	TTL time.Duration

	// EnableMetrics enables hit/miss/eviction counters and access latency
	// tracking. When false, Stats returns zero values.
	EnableMetrics bool
}

// DefaultConfig returns a Config with the default limits.
// MaxSize: 100, TTL: 1 hour, metrics enabled.
func DefaultConfig() Config {
	return Config{
		MaxSize:       DefaultMaxSize,
		TTL:           DefaultTTL,
		EnableMetrics: true,
	}
}

// Validate checks the configuration. A MaxSize below 1 is rejected rather
// than degrading into a store that never caches.
func (c Config) Validate() error {
	if c.MaxSize < 1 {
		return ErrInvalidMaxSize
	}
	if c.TTL <= 0 && c.TTL != NoExpiry {
		return ErrInvalidTTL
	}
	return nil
}

// yamlConfig mirrors Config for file decoding. TTL is a Go duration string
// ("30m", "6h") or the literal "never".
type yamlConfig struct {
	MaxSize       *int   `yaml:"max_size"`
	TTL           string `yaml:"ttl"`
	EnableMetrics *bool  `yaml:"enable_metrics"`
}

// UnmarshalYAML decodes a Config, applying defaults for omitted fields.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw yamlConfig
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*c = DefaultConfig()

	if raw.MaxSize != nil {
		c.MaxSize = *raw.MaxSize
	}

	switch raw.TTL {
	case "":
		// keep default
	case "never":
		c.TTL = NoExpiry
	default:
		d, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("cache: invalid ttl %q: %w", raw.TTL, err)
		}
		c.TTL = d
	}

	if raw.EnableMetrics != nil {
		c.EnableMetrics = *raw.EnableMetrics
	}

	return nil
}

// RegistryConfig maps domain names to their store configuration.
type RegistryConfig struct {
	Domains map[string]Config `yaml:"domains"`
}

// LoadRegistryConfig reads a YAML registry configuration from path.
//
// Example:
//
//	domains:
//	  jobs:
//	    max_size: 200
//	    ttl: 6h
//	  artifacts:
//	    max_size: 50
//	    ttl: 30m
//	    enable_metrics: false
func LoadRegistryConfig(path string) (RegistryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RegistryConfig{}, fmt.Errorf("cache: read registry config: %w", err)
	}

	var cfg RegistryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RegistryConfig{}, fmt.Errorf("cache: parse registry config: %w", err)
	}

	return cfg, nil
}
