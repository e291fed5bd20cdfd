package catalog

import "github.com/shopspring/decimal"

// Product is the provider-agnostic product representation the storefront
// consumes. Price is in major units (dollars); conversion from the
// upstream minor-unit integer happens once, at normalization time, using
// exact decimal arithmetic. Immutable once created.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      Category        `json:"category"`
	Description   string          `json:"description"`
	Image         *string         `json:"image"`
	IsBestSeller  bool            `json:"isBestSeller"`
	IsNewArrival  bool            `json:"isNewArrival"`
	StockQuantity int             `json:"stockQuantity"`
	SKU           string          `json:"sku"`
	Available     bool            `json:"available"`
}
