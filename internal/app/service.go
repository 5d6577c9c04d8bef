// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/liftmotor/internal/adapters/catalog"
	"github.com/okian/liftmotor/internal/adapters/repository"
	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/selection"
	"github.com/okian/liftmotor/internal/domain/types"
	"github.com/okian/liftmotor/pkg/logger"
	"github.com/okian/liftmotor/pkg/metrics"
)

// Service answers motor selection queries against catalogs loaded once at
// start.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deriver *requirement.Deriver
	load    repository.LoadFunc

	// Configuration
	sources []repository.Source
	policy  selection.Policy

	// State
	started   bool
	startedAt time.Time
	queries   atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses an already populated store instead of loading sources.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalogSources sets the catalog files loaded by Start. Sources with an
// empty path are skipped.
func WithCatalogSources(sources ...repository.Source) Option {
	return func(s *Service) {
		for _, src := range sources {
			if src.Path != "" {
				s.sources = append(s.sources, src)
			}
		}
	}
}

// WithLoader replaces the catalog file reader.
func WithLoader(load repository.LoadFunc) Option {
	return func(s *Service) {
		if load != nil {
			s.load = load
		}
	}
}

// WithPolicy sets the default filter policy. Queries may override it.
func WithPolicy(p selection.Policy) Option {
	return func(s *Service) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithDeriver sets the requirement deriver.
func WithDeriver(d *requirement.Deriver) Option {
	return func(s *Service) {
		if d != nil {
			s.deriver = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		deriver: requirement.NewDeriver(),
		load:    catalog.LoadFile,
		policy:  selection.PolicyEffectiveCapacity,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalogs. A catalog that fails to load is kept as
// unavailable; Start only fails when nothing is configured at all.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		if len(s.sources) == 0 {
			return ErrNoCatalogs
		}
		s.logger.Info(ctx, "loading motor catalogs...", logger.Int("sources", len(s.sources)))
		s.store = repository.Load(ctx, s.logger, s.load, s.sources...)
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "motor selection service started",
		logger.String("policy", string(s.policy)),
		logger.Int("rows", s.store.Count(ctx)),
	)
	return nil
}

// Stop marks the service as stopped. Catalogs stay in memory.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "motor selection service stopped")
}

func (s *Service) snapshot() (repository.Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store, s.started
}

// Select validates q, derives its requirement and filters every requested
// catalog. Invalid queries return an error wrapping
// requirement.ErrInvalidQuery or selection.ErrUnknownPolicy. A catalog that
// could not be loaded yields a result with StatusUnavailable rather than an
// error.
func (s *Service) Select(ctx context.Context, q requirement.Query) (types.Response, error) {
	store, started := s.snapshot()
	if !started {
		return types.Response{}, ErrNotStarted
	}
	start := time.Now()

	q = q.Normalize()
	if err := q.Validate(); err != nil {
		metrics.RecordInvalidQuery()
		return types.Response{}, err
	}
	policy, err := selection.ParsePolicy(q.Policy, s.policy)
	if err != nil {
		metrics.RecordInvalidQuery()
		return types.Response{}, err
	}

	req := s.deriver.Derive(q)
	filter := selection.New(selection.WithPolicy(policy))

	resp := types.Response{
		QueryID:     QueryIDFrom(ctx),
		Policy:      policy,
		Requirement: req,
		Results:     make([]types.Result, 0, 2),
	}
	for _, t := range q.MotorType.Types() {
		resp.Results = append(resp.Results, s.selectOne(ctx, store, filter, t, req, q.Explain))
	}
	s.queries.Add(1)

	latency := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordQueryLatency(latency)
	s.logger.Debug(ctx, "selection done",
		logger.String("query_id", resp.QueryID),
		logger.String("policy", string(policy)),
		logger.Float64("required_capacity_kg", req.RequiredCapacityKG),
		logger.Float64("required_travel_m", req.RequiredTravelM),
		logger.Int("matches", resp.Matches()),
		logger.Float64("latency_ms", latency),
	)
	return resp, nil
}

func (s *Service) selectOne(
	ctx context.Context,
	store repository.Store,
	filter *selection.Filter,
	t motor.Type,
	req requirement.Requirement,
	explain bool,
) types.Result {
	res := types.Result{MotorType: t, Motors: []motor.Record{}}

	c, err := store.Catalog(ctx, t)
	if err != nil {
		res.Status = types.StatusUnavailable
		res.Error = err.Error()
		metrics.RecordQuery(string(t), string(res.Status))
		return res
	}

	matched, rejected := filter.Partition(c, req)
	for _, r := range rejected {
		for _, reason := range r.Reasons {
			metrics.RecordMotorRejected(string(t), reason)
		}
	}

	res.Motors = matched
	res.Status = types.StatusOK
	if len(matched) == 0 {
		res.Status = types.StatusNoMatches
	}
	if explain {
		res.Rejected = rejected
	}
	metrics.RecordQuery(string(t), string(res.Status))
	metrics.RecordMotorsMatched(string(t), len(matched))
	return res
}

// Catalogs lists the configured catalogs and their load state.
func (s *Service) Catalogs(ctx context.Context) ([]repository.Status, error) {
	store, started := s.snapshot()
	if !started {
		return nil, ErrNotStarted
	}
	return store.Status(ctx), nil
}

// Catalog returns the rows of catalog t.
func (s *Service) Catalog(ctx context.Context, t motor.Type) (*motor.Catalog, error) {
	store, started := s.snapshot()
	if !started {
		return nil, ErrNotStarted
	}
	c, err := store.Catalog(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", t, err)
	}
	return c, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"policy":  string(s.policy),
		"queries": s.queries.Load(),
	}

	if s.started {
		ctx := context.Background()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["totalRows"] = s.store.Count(ctx)
		stats["catalogs"] = s.store.Status(ctx)
	}

	return stats
}

type queryIDKey struct{}

// WithQueryID returns a context carrying the id reported as query_id.
func WithQueryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, queryIDKey{}, id)
}

// QueryIDFrom returns the query id stored in ctx, or a fresh UUID.
func QueryIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(queryIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
