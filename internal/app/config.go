package service

import (
	"github.com/okian/liftmotor/internal/adapters/repository"
	"github.com/okian/liftmotor/internal/config"
	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/selection"
	"github.com/okian/liftmotor/pkg/metrics"
)

// Sources returns the catalog files named by cfg, gearless first. Types
// without a path are left out.
func Sources(cfg *config.Config) []repository.Source {
	out := make([]repository.Source, 0, 2)
	if cfg.GearlessCatalog != "" {
		out = append(out, repository.Source{Type: motor.TypeGearless, Path: cfg.GearlessCatalog})
	}
	if cfg.GearedCatalog != "" {
		out = append(out, repository.Source{Type: motor.TypeGeared, Path: cfg.GearedCatalog})
	}
	return out
}

// OptionsFromConfig maps a validated Config onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	policy, err := selection.ParsePolicy(cfg.FilterPolicy, selection.PolicyEffectiveCapacity)
	if err != nil {
		policy = selection.PolicyEffectiveCapacity
	}
	return []Option{
		WithCatalogSources(Sources(cfg)...),
		WithPolicy(policy),
		WithDeriver(requirement.NewDeriver(
			requirement.WithPassengerWeight(cfg.PassengerWeightKG),
			requirement.WithFloorHeight(cfg.FloorHeightM),
		)),
	}
}

// MetricsOptions maps the metrics settings of a validated Config onto
// metrics options.
func MetricsOptions(cfg *config.Config) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
	}
	if cfg.MetricsSite != "" {
		opts = append(opts, metrics.WithConstLabels(map[string]string{"site": cfg.MetricsSite}))
	}
	if buckets, err := cfg.LatencyBuckets(); err == nil {
		opts = append(opts, metrics.WithHistogramBuckets(buckets))
	}
	return opts
}
