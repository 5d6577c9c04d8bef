// Package repository holds the motor catalogs loaded for the session.
//
// Catalogs are loaded once, before any query is served, and never written
// again; readers share them without locking.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/liftmotor/internal/domain/motor"
)

// Status describes one configured catalog.
type Status struct {
	Type      motor.Type `json:"motor_type"`
	Available bool       `json:"available"`
	Source    string     `json:"source,omitempty"`
	Rows      int        `json:"rows"`
	HasTravel bool       `json:"has_travel"`
	Error     string     `json:"error,omitempty"`
}

// Store provides read access to the session catalogs.
type Store interface {
	// Catalog returns the catalog of type t.
	// Returns ErrNotFound if t was never configured and an error wrapping
	// ErrUnavailable if it failed to load.
	Catalog(ctx context.Context, t motor.Type) (*motor.Catalog, error)

	// Status lists every configured catalog in load order.
	Status(ctx context.Context) []Status

	// Count returns the number of rows across available catalogs.
	Count(ctx context.Context) int
}

type entry struct {
	catalog *motor.Catalog
	source  string
	err     error
}

// MemoryStore is an immutable in-memory Store.
type MemoryStore struct {
	entries map[motor.Type]entry
	order   []motor.Type
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store from options. Later options for the same
// type replace earlier ones.
func NewMemoryStore(_ context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{entries: make(map[motor.Type]entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) put(t motor.Type, e entry) {
	if _, ok := s.entries[t]; !ok {
		s.order = append(s.order, t)
	}
	s.entries[t] = e
}

// Catalog implements Store.
func (s *MemoryStore) Catalog(_ context.Context, t motor.Type) (*motor.Catalog, error) {
	e, ok := s.entries[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t)
	}
	if e.err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, t, e.err)
	}
	return e.catalog, nil
}

// Status implements Store.
func (s *MemoryStore) Status(_ context.Context) []Status {
	out := make([]Status, 0, len(s.order))
	for _, t := range s.order {
		e := s.entries[t]
		st := Status{Type: t, Source: e.source, Available: e.err == nil}
		if e.err != nil {
			st.Error = e.err.Error()
		} else {
			st.Rows = e.catalog.Len()
			st.HasTravel = e.catalog.HasTravel()
		}
		out = append(out, st)
	}
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	n := 0
	for _, e := range s.entries {
		if e.err == nil {
			n += e.catalog.Len()
		}
	}
	return n
}
