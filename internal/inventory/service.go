package inventory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront-service/internal/cache"
	"storefront-service/internal/catalog"
	"storefront-service/internal/clover"
)

// sharedCacheKey is the single slot the replicas share.
const sharedCacheKey = "inventory:snapshot"

// Upstream is the slice of the Clover client the service depends on.
type Upstream interface {
	ListItems(ctx context.Context) ([]clover.Item, error)
	ListCategories(ctx context.Context) ([]clover.Category, error)
	ListItemStocks(ctx context.Context) ([]clover.ItemStock, error)
}

// Service owns the in-process snapshot slot and orchestrates refreshes.
// Concurrent cache misses are collapsed into one upstream round trip via
// singleflight; a failed refresh never overwrites a previous snapshot.
type Service struct {
	logger     *zap.Logger
	upstream   Upstream
	ttl        time.Duration
	configured bool
	shared     cache.Cache    // optional, nil = disabled
	store      *SnapshotStore // optional, nil = disabled

	mu    sync.RWMutex
	snap  *Snapshot
	group singleflight.Group

	now func() time.Time
}

type Options struct {
	TTL time.Duration
	// Configured mirrors config.CloverConfigured(); when false the service
	// serves the safe empty catalog and never calls upstream.
	Configured bool
	// Shared is the optional cross-replica snapshot cache.
	Shared cache.Cache
	// Store is the optional SQLite warm-start store.
	Store *SnapshotStore
}

func NewService(logger *zap.Logger, upstream Upstream, opts Options) *Service {
	s := &Service{
		logger:     logger,
		upstream:   upstream,
		ttl:        opts.TTL,
		configured: opts.Configured,
		shared:     opts.Shared,
		store:      opts.Store,
		now:        time.Now,
	}

	if s.store != nil {
		snap, err := s.store.Load(context.Background())
		if err != nil {
			logger.Warn("Failed to load persisted snapshot, starting cold", zap.Error(err))
		} else if snap != nil {
			// The seed counts as stale unless it happens to be inside the
			// TTL; either way it is a better fallback than nothing.
			s.snap = snap
			logger.Info("Warm-started from persisted snapshot",
				zap.Int("products", len(snap.Products)),
				zap.Time("captured_at", snap.CapturedAt),
			)
		}
	}

	return s
}

// Configured reports whether upstream credentials are present. When false
// the service runs in degraded mode and never calls upstream.
func (s *Service) Configured() bool {
	return s.configured
}

// Snapshot returns the current catalog, refreshing from upstream when the
// cached snapshot is missing or past its TTL.
//
// Degraded mode: with upstream credentials absent this returns an empty
// product list and the fixed category list, successfully, without any
// network call. The storefront keeps rendering.
//
// Failure mode: if a refresh fails and a previous (stale) snapshot
// exists, the stale snapshot is served and the next read re-attempts the
// refresh. Only with nothing to fall back on does the error surface.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if !s.configured {
		return &Snapshot{
			Products:   []catalog.Product{},
			Categories: catalog.StorefrontCategories,
			CapturedAt: s.now(),
		}, nil
	}

	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap.FreshAt(s.now(), s.ttl) {
		return snap, nil
	}

	result, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		// Re-check under the flight: another caller may have refreshed
		// between our freshness check and joining the group.
		s.mu.RLock()
		current := s.snap
		s.mu.RUnlock()
		if current.FreshAt(s.now(), s.ttl) {
			return current, nil
		}

		if fromShared := s.loadShared(ctx); fromShared != nil {
			s.setSnapshot(ctx, fromShared, false)
			return fromShared, nil
		}

		fresh, err := s.refresh(ctx)
		if err != nil {
			if current != nil {
				s.logger.Warn("Refresh failed, serving stale snapshot",
					zap.Time("captured_at", current.CapturedAt),
					zap.Error(err),
				)
				return current, nil
			}
			return nil, err
		}

		s.setSnapshot(ctx, fresh, true)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

// Invalidate marks the current snapshot stale so the next read refreshes.
// Used by the Kafka consumer when an inventory-change event arrives.
func (s *Service) Invalidate(ctx context.Context) {
	s.mu.Lock()
	if s.snap != nil {
		// Copy on write: earlier readers may still hold the old pointer.
		stale := *s.snap
		stale.CapturedAt = time.Time{}
		s.snap = &stale
	}
	s.mu.Unlock()

	if s.shared != nil {
		if err := s.shared.Delete(ctx, sharedCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate shared snapshot", zap.Error(err))
		}
	}

	s.logger.Info("Inventory snapshot invalidated")
}

// refresh performs the full upstream round trip: items, categories and
// stock records, then normalization. Items and categories are required;
// a stock fetch failure degrades to the items' own stock counts.
func (s *Service) refresh(ctx context.Context) (*Snapshot, error) {
	start := s.now()

	items, err := s.upstream.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.upstream.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	var stockLookup map[string]int
	stocks, err := s.upstream.ListItemStocks(ctx)
	if err != nil {
		s.logger.Warn("Stock fetch failed, falling back to per-item stock counts", zap.Error(err))
	} else {
		stockLookup = catalog.StockLookup(stocks)
	}

	products := catalog.NormalizeAll(items, catalog.CategoryNameLookup(categories), stockLookup)

	snap := &Snapshot{
		Products:   products,
		Categories: catalog.StorefrontCategories,
		CapturedAt: s.now(),
	}

	s.logger.Info("Inventory refreshed",
		zap.Int("raw_items", len(items)),
		zap.Int("products", len(products)),
		zap.Duration("took", s.now().Sub(start)),
	)
	return snap, nil
}

func (s *Service) setSnapshot(ctx context.Context, snap *Snapshot, propagate bool) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	if !propagate {
		return
	}
	if s.shared != nil {
		if err := cache.SetJSON(ctx, s.shared, sharedCacheKey, snap, s.ttl); err != nil {
			s.logger.Warn("Failed to publish snapshot to shared cache", zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Save(ctx, snap); err != nil {
			s.logger.Warn("Failed to persist snapshot", zap.Error(err))
		}
	}
}

// loadShared returns a fresh snapshot from the shared cache, or nil.
func (s *Service) loadShared(ctx context.Context) *Snapshot {
	if s.shared == nil {
		return nil
	}
	var snap Snapshot
	if err := cache.GetJSON(ctx, s.shared, sharedCacheKey, &snap); err != nil {
		if err != cache.ErrCacheMiss {
			s.logger.Warn("Shared cache read failed", zap.Error(err))
		}
		return nil
	}
	if !snap.FreshAt(s.now(), s.ttl) {
		return nil
	}
	return &snap
}
