package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/clover"
)

func rawItem(id string) clover.Item {
	return clover.Item{
		ID:        id,
		Name:      "Test Bottle",
		Price:     1999,
		SKU:       "SKU-" + id,
		Available: true,
	}
}

func withCategories(item clover.Item, refs ...clover.CategoryRef) clover.Item {
	item.Categories = &clover.CategoryRefs{Elements: refs}
	return item
}

func withTags(item clover.Item, names ...string) clover.Item {
	tags := make([]clover.TagRef, len(names))
	for i, name := range names {
		tags[i] = clover.TagRef{ID: "T" + name, Name: name}
	}
	item.Tags = &clover.TagRefs{Elements: tags}
	return item
}

func TestNormalize_PriceMinorToMajorUnits(t *testing.T) {
	product, ok := Normalize(rawItem("I1"), nil, nil)
	require.True(t, ok)
	assert.Equal(t, "19.99", product.Price.String())
}

func TestNormalize_UnavailableExcluded(t *testing.T) {
	item := rawItem("I1")
	item.Available = false
	item.StockCount = 50 // stock does not override the availability policy

	_, ok := Normalize(item, nil, nil)
	assert.False(t, ok)
}

func TestNormalize_CategoryResolution(t *testing.T) {
	lookup := map[string]string{"C1": "Red Wine", "C2": "Whiskey"}

	product, ok := Normalize(withCategories(rawItem("I1"), clover.CategoryRef{ID: "C1"}), lookup, nil)
	require.True(t, ok)
	assert.Equal(t, CategoryWine, product.Category)

	// Only the first category reference counts.
	product, ok = Normalize(withCategories(rawItem("I2"),
		clover.CategoryRef{ID: "C2"}, clover.CategoryRef{ID: "C1"}), lookup, nil)
	require.True(t, ok)
	assert.Equal(t, CategorySpirits, product.Category)
}

func TestNormalize_NoCategoryRefsIsOther(t *testing.T) {
	// Tags must not influence the category.
	item := withTags(rawItem("I1"), "Wine Lovers Pick")

	product, ok := Normalize(item, map[string]string{}, nil)
	require.True(t, ok)
	assert.Equal(t, CategoryOther, product.Category)
}

func TestNormalize_UnresolvableCategoryRefFallsBackToInlineName(t *testing.T) {
	item := withCategories(rawItem("I1"), clover.CategoryRef{ID: "C9", Name: "Lager"})

	product, ok := Normalize(item, map[string]string{}, nil)
	require.True(t, ok)
	assert.Equal(t, CategoryBeer, product.Category)
}

func TestNormalize_TagFlags(t *testing.T) {
	tests := []struct {
		name       string
		tags       []string
		bestSeller bool
		newArrival bool
	}{
		{"best seller tag", []string{"Best Seller"}, true, false},
		{"popular tag", []string{"Popular Pick"}, true, false},
		{"new arrival favorite", []string{"New Arrival Favorite"}, false, true},
		{"both flags", []string{"Popular", "New This Week"}, true, true},
		{"unrelated tags", []string{"Staff", "Local"}, false, false},
		{"no tags", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := rawItem("I1")
			if tt.tags != nil {
				item = withTags(item, tt.tags...)
			}
			product, ok := Normalize(item, nil, nil)
			require.True(t, ok)
			assert.Equal(t, tt.bestSeller, product.IsBestSeller)
			assert.Equal(t, tt.newArrival, product.IsNewArrival)
		})
	}
}

func TestNormalize_SameTagSameFlagAcrossItems(t *testing.T) {
	a, ok := Normalize(withTags(rawItem("A"), "New Arrival Favorite"), nil, nil)
	require.True(t, ok)
	b, ok := Normalize(withTags(rawItem("B"), "New Arrival Favorite"), nil, nil)
	require.True(t, ok)
	assert.True(t, a.IsNewArrival)
	assert.True(t, b.IsNewArrival)
}

func TestNormalize_StockPreference(t *testing.T) {
	item := rawItem("I1")
	item.StockCount = 7

	// Dedicated stock record wins over the item's own count.
	product, ok := Normalize(item, nil, map[string]int{"I1": 42})
	require.True(t, ok)
	assert.Equal(t, 42, product.StockQuantity)

	// Without a stock record the item's own count is used.
	product, ok = Normalize(item, nil, nil)
	require.True(t, ok)
	assert.Equal(t, 7, product.StockQuantity)

	// Neither present: zero.
	bare := rawItem("I2")
	product, ok = Normalize(bare, nil, nil)
	require.True(t, ok)
	assert.Equal(t, 0, product.StockQuantity)
}

func TestNormalize_Idempotent(t *testing.T) {
	item := withTags(withCategories(rawItem("I1"), clover.CategoryRef{ID: "C1"}), "Popular")
	lookup := map[string]string{"C1": "Seltzer"}
	stock := map[string]int{"I1": 3}

	first, ok := Normalize(item, lookup, stock)
	require.True(t, ok)
	second, ok := Normalize(item, lookup, stock)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	items := []clover.Item{rawItem("A"), rawItem("B"), rawItem("C")}
	items[1].Available = false

	products := NormalizeAll(items, nil, nil)
	require.Len(t, products, 2)
	assert.Equal(t, "A", products[0].ID)
	assert.Equal(t, "C", products[1].ID)
}

func TestStockLookup(t *testing.T) {
	stocks := []clover.ItemStock{
		{Item: clover.Reference{ID: "I1"}, Quantity: 12.0},
		{Item: clover.Reference{ID: "I2"}, Quantity: 3.6},
		{Item: clover.Reference{}, Quantity: 99},
	}
	lookup := StockLookup(stocks)
	assert.Equal(t, map[string]int{"I1": 12, "I2": 3}, lookup)
}
