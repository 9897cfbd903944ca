// Package config loads the YAML-driven FX provider configuration: source
// endpoints, priority order, rate limits, retry/backoff, circuit breaker
// thresholds, cache TTL, and the static fallback table used when every
// live source fails.
//
// Grounded on the teacher's internal/config/providers.go: a flat YAML
// struct with a Validate method, loaded once at startup and handed to the
// rest of the program as a typed value rather than consulted through
// package-level globals.
package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/fx"
)

// BackoffConfig mirrors the teacher's exponential-backoff shape.
type BackoffConfig struct {
	BaseMS int  `yaml:"base_ms"`
	MaxMS  int  `yaml:"max_ms"`
	Jitter bool `yaml:"jitter"`
}

// SourceConfig is one FX provider's YAML entry.
type SourceConfig struct {
	Name      string `yaml:"name"`
	Endpoint  string `yaml:"endpoint"`
	APIKeyEnv string `yaml:"api_key_env"` // name of the env var holding the key; never stored in the file itself
	Format    string `yaml:"format"`      // "ecb" | "exchangerate-api"
	Priority  int    `yaml:"priority"`
	RPS       int    `yaml:"rps"`
	Burst     int    `yaml:"burst"`
}

// FXConfig is the complete FX subsystem configuration.
type FXConfig struct {
	Sources     []SourceConfig    `yaml:"sources"`
	Fallback    map[string]float64 `yaml:"fallback_rates"`
	FallbackBase string           `yaml:"fallback_base"`
	CacheTTLSecs int              `yaml:"cache_ttl_secs"`
	Retries      int              `yaml:"retries"`
	TimeoutMS    int              `yaml:"timeout_ms"`
	Backoff      BackoffConfig    `yaml:"backoff"`
	AutoCorrect  bool             `yaml:"auto_correct"`
}

// LoadFXConfig reads and validates an FXConfig from a YAML file.
func LoadFXConfig(path string) (*FXConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fx config: %w", err)
	}
	var cfg FXConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse fx config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fx config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded configuration for internally-consistent
// values, following the teacher's provider-config validation style.
func (c *FXConfig) Validate() error {
	if len(c.Sources) == 0 && len(c.Fallback) == 0 {
		return fmt.Errorf("fx config must declare at least one source or a fallback table")
	}
	if c.CacheTTLSecs < 0 {
		return fmt.Errorf("cache_ttl_secs must be non-negative, got %d", c.CacheTTLSecs)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be non-negative, got %d", c.Retries)
	}
	for _, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source missing name")
		}
		if s.Endpoint == "" {
			return fmt.Errorf("source %s: endpoint cannot be empty", s.Name)
		}
		if s.RPS <= 0 {
			return fmt.Errorf("source %s: rps must be positive, got %d", s.Name, s.RPS)
		}
		if s.Burst < s.RPS {
			return fmt.Errorf("source %s: burst (%d) must be >= rps (%d)", s.Name, s.Burst, s.RPS)
		}
	}
	return nil
}

// ToProviderOptions builds the fx.Options this config describes, resolving
// each source's API key from its configured environment variable.
func (c *FXConfig) ToProviderOptions() fx.Options {
	sources := make([]fx.SourceConfig, 0, len(c.Sources))
	for _, s := range c.Sources {
		format := fx.FormatECBLike
		if s.Format == "exchangerate-api" {
			format = fx.FormatExchangeRateAPILike
		}
		sources = append(sources, fx.SourceConfig{
			Name:      s.Name,
			Endpoint:  s.Endpoint,
			APIKey:    os.Getenv(s.APIKeyEnv),
			Format:    format,
			Priority:  s.Priority,
			RateLimit: rate.Limit(s.RPS),
			Burst:     s.Burst,
		})
	}
	fallback := &econ.FXTable{
		Base:   c.FallbackBase,
		Rates:  c.Fallback,
		Source: "fallback",
	}
	return fx.Options{
		Sources:     sources,
		Fallback:    fallback,
		CacheOn:     c.CacheTTLSecs > 0,
		CacheTTL:    time.Duration(c.CacheTTLSecs) * time.Second,
		Retries:     c.Retries,
		Timeout:     time.Duration(c.TimeoutMS) * time.Millisecond,
		AutoCorrect: c.AutoCorrect,
	}
}
