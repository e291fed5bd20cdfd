package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront-service/internal/clover"
)

var centsPerUnit = decimal.NewFromInt(100)

// Normalize converts a raw upstream item into a storefront Product.
// categoryNames resolves category ids to display names; stockQuantities is
// the dedicated stock-record lookup keyed by item id (may be nil).
//
// Returns ok=false when the item is excluded from the catalog. The
// inclusion policy is available==true only; items Clover marks unavailable
// never reach the storefront regardless of their stock count.
//
// Malformed items are normalized with best-effort defaults (empty
// description, nil image, zero stock, CategoryOther) rather than rejected.
func Normalize(item clover.Item, categoryNames map[string]string, stockQuantities map[string]int) (Product, bool) {
	if !item.Available {
		return Product{}, false
	}

	category := CategoryOther
	if item.Categories != nil && len(item.Categories.Elements) > 0 {
		// Only the first category reference on the item is considered.
		ref := item.Categories.Elements[0]
		name := ref.Name
		if resolved, ok := categoryNames[ref.ID]; ok {
			name = resolved
		}
		category = Classify(strings.ToLower(name))
	}

	isBestSeller := hasTagContaining(item, "best seller", "popular")
	isNewArrival := hasTagContaining(item, "new", "arrival")

	stock := 0
	if qty, ok := stockQuantities[item.ID]; ok {
		stock = qty
	} else if item.StockCount > 0 {
		stock = item.StockCount
	}

	return Product{
		ID:            item.ID,
		Name:          item.Name,
		Price:         decimal.NewFromInt(item.Price).Div(centsPerUnit),
		Category:      category,
		Description:   item.Description,
		Image:         item.Image,
		IsBestSeller:  isBestSeller,
		IsNewArrival:  isNewArrival,
		StockQuantity: stock,
		SKU:           item.SKU,
		Available:     item.Available,
	}, true
}

// NormalizeAll normalizes a batch of items, dropping excluded ones.
// Output order follows the filtered input order.
func NormalizeAll(items []clover.Item, categoryNames map[string]string, stockQuantities map[string]int) []Product {
	products := make([]Product, 0, len(items))
	for _, item := range items {
		if product, ok := Normalize(item, categoryNames, stockQuantities); ok {
			products = append(products, product)
		}
	}
	return products
}

// CategoryNameLookup builds the id -> display name table from the raw
// categories resource.
func CategoryNameLookup(categories []clover.Category) map[string]string {
	lookup := make(map[string]string, len(categories))
	for _, cat := range categories {
		lookup[cat.ID] = cat.Name
	}
	return lookup
}

// StockLookup builds the item id -> quantity table from the raw stock
// resource. Fractional quantities are truncated.
func StockLookup(stocks []clover.ItemStock) map[string]int {
	lookup := make(map[string]int, len(stocks))
	for _, stock := range stocks {
		if stock.Item.ID == "" {
			continue
		}
		lookup[stock.Item.ID] = int(stock.Quantity)
	}
	return lookup
}

func hasTagContaining(item clover.Item, substrings ...string) bool {
	if item.Tags == nil {
		return false
	}
	for _, tag := range item.Tags.Elements {
		name := strings.ToLower(tag.Name)
		for _, substring := range substrings {
			if strings.Contains(name, substring) {
				return true
			}
		}
	}
	return false
}
