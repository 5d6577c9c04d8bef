package repository

import (
	"context"
	"time"

	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/pkg/logger"
	"github.com/okian/liftmotor/pkg/metrics"
)

// Source names the file a catalog type is read from.
type Source struct {
	Type motor.Type
	Path string
}

// LoadFunc reads one catalog file.
type LoadFunc func(ctx context.Context, path string, t motor.Type) (*motor.Catalog, error)

// Load reads every source once and returns the resulting store. A source
// that fails is registered as unavailable; the others stay usable.
func Load(ctx context.Context, log logger.Logger, load LoadFunc, sources ...Source) *MemoryStore {
	opts := make([]Option, 0, len(sources))
	for _, src := range sources {
		start := time.Now()
		c, err := load(ctx, src.Path, src.Type)
		elapsed := float64(time.Since(start).Microseconds()) / 1000

		if err != nil {
			log.Error(ctx, "catalog unavailable",
				logger.String("motor_type", string(src.Type)),
				logger.String("source", src.Path),
				logger.Error(err),
			)
			metrics.RecordCatalogLoadError(string(src.Type))
			metrics.UpdateCatalogAvailable(string(src.Type), false)
			opts = append(opts, WithUnavailable(src.Type, src.Path, err))
			continue
		}

		log.Info(ctx, "catalog loaded",
			logger.String("motor_type", string(src.Type)),
			logger.String("source", src.Path),
			logger.Int("rows", c.Len()),
			logger.Bool("has_travel", c.HasTravel()),
			logger.Float64("load_ms", elapsed),
		)
		metrics.UpdateCatalogRows(string(src.Type), c.Len())
		metrics.UpdateCatalogAvailable(string(src.Type), true)
		metrics.RecordCatalogLoadLatency(elapsed)
		opts = append(opts, WithCatalog(src.Path, c))
	}
	return NewMemoryStore(ctx, opts...)
}
