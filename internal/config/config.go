// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and the environment on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/selection"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// GearlessCatalog and GearedCatalog are the catalog file paths (.csv or .xlsx).
	GearlessCatalog string `koanf:"gearless_catalog"`
	GearedCatalog   string `koanf:"geared_catalog"`

	// FilterPolicy selects the capacity rule: effective-capacity or exact-roping.
	FilterPolicy string `koanf:"filter_policy"`

	// PassengerWeightKG is the average passenger weight used to derive capacity.
	PassengerWeightKG float64 `koanf:"passenger_weight_kg"`

	// FloorHeightM is the storey height used to derive travel.
	FloorHeightM float64 `koanf:"floor_height_m"`

	// RateLimitRPS and RateLimitBurst bound requests per client IP.
	// A zero RPS disables the limiter.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsSite, when set, is attached to every metric as the "site" label.
	MetricsSite string `koanf:"metrics_site"`

	// MetricsLatencyBuckets lists the query latency histogram bounds in
	// milliseconds, comma separated. Empty keeps the defaults.
	MetricsLatencyBuckets string `koanf:"metrics_latency_buckets"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		GearlessCatalog:   "data/gearless.csv",
		GearedCatalog:     "data/geared.csv",
		FilterPolicy:      string(selection.PolicyEffectiveCapacity),
		PassengerWeightKG: requirement.DefaultPassengerWeightKG,
		FloorHeightM:      requirement.DefaultFloorHeightM,
		RateLimitRPS:      20,
		RateLimitBurst:    40,
		MetricsNamespace:  "liftmotor",
		MetricsSubsystem:  "selector",
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.GearlessCatalog == "" && c.GearedCatalog == "" {
		return fmt.Errorf("%w: at least one catalog path is required", ErrInvalidConfig)
	}
	if _, err := selection.ParsePolicy(c.FilterPolicy, selection.PolicyEffectiveCapacity); err != nil {
		return fmt.Errorf("%w: filter_policy: %w", ErrInvalidConfig, err)
	}
	if c.PassengerWeightKG <= 0 {
		return fmt.Errorf("%w: passenger_weight_kg must be positive", ErrInvalidConfig)
	}
	if c.FloorHeightM <= 0 {
		return fmt.Errorf("%w: floor_height_m must be positive", ErrInvalidConfig)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate_limit_burst must be at least 1", ErrInvalidConfig)
	}
	if !metricName.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name prefix", ErrInvalidConfig, c.MetricsNamespace)
	}
	if c.MetricsSubsystem != "" && !metricName.MatchString(c.MetricsSubsystem) {
		return fmt.Errorf("%w: metrics_subsystem %q is not a valid metric name prefix", ErrInvalidConfig, c.MetricsSubsystem)
	}
	if _, err := c.LatencyBuckets(); err != nil {
		return err
	}
	return nil
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`) //nolint:gochecknoglobals // compiled once

// LatencyBuckets parses MetricsLatencyBuckets. It returns nil when unset.
// Bounds must be finite and strictly increasing.
func (c *Config) LatencyBuckets() ([]float64, error) {
	raw := strings.TrimSpace(c.MetricsLatencyBuckets)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: metrics_latency_buckets: %q is not a number", ErrInvalidConfig, p)
		}
		if len(out) > 0 && v <= out[len(out)-1] {
			return nil, fmt.Errorf("%w: metrics_latency_buckets must be increasing", ErrInvalidConfig)
		}
		out = append(out, v)
	}
	return out, nil
}
