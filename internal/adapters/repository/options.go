package repository

import (
	"errors"

	"github.com/okian/liftmotor/internal/domain/motor"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCatalog registers a loaded catalog under its own type.
func WithCatalog(source string, c *motor.Catalog) Option {
	return func(s *MemoryStore) {
		if c == nil {
			return
		}
		s.put(c.Type(), entry{catalog: c, source: source})
	}
}

// WithUnavailable registers a catalog that failed to load. Queries against
// it report the cause instead of an empty result.
func WithUnavailable(t motor.Type, source string, cause error) Option {
	return func(s *MemoryStore) {
		if cause == nil {
			cause = errors.New("unavailable")
		}
		s.put(t, entry{source: source, err: cause})
	}
}
