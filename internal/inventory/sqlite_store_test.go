package inventory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/catalog"
)

func TestSnapshotStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	snap := &Snapshot{
		Products: []catalog.Product{{
			ID:       "I1",
			Name:     "Test Bottle",
			Price:    decimal.RequireFromString("19.99"),
			Category: catalog.CategoryWine,
		}},
		Categories: catalog.StorefrontCategories,
		CapturedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Products, 1)
	assert.Equal(t, "I1", loaded.Products[0].ID)
	assert.Equal(t, "19.99", loaded.Products[0].Price.String())

	// Second save overwrites the single slot.
	snap.Products = nil
	require.NoError(t, store.Save(ctx, snap))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Products)
}

func TestNewService_WarmStartsFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewSnapshotStore(path)
	require.NoError(t, err)
	defer store.Close()

	snap := &Snapshot{
		Products:   []catalog.Product{{ID: "I1", Name: "Bottle", Category: catalog.CategoryBeer}},
		Categories: catalog.StorefrontCategories,
		CapturedAt: time.Now().Add(-time.Hour), // well past any sane TTL
	}
	require.NoError(t, store.Save(context.Background(), snap))

	upstream := &fakeUpstream{failItems: true}
	service := NewService(zap.NewNop(), upstream, Options{
		TTL:        10 * time.Minute,
		Configured: true,
		Store:      store,
	})

	// The seed is stale, so a refresh is attempted; with upstream down the
	// persisted catalog is still served.
	got, err := service.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "I1", got.Products[0].ID)
}
