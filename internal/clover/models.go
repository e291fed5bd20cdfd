package clover

// Wire models for the Clover v3 merchant API. Only the fields the
// storefront consumes are mapped; everything else is ignored on decode.

// Reference is a bare id reference to another Clover object.
type Reference struct {
	ID string `json:"id"`
}

// CategoryRef is a category reference as embedded on an expanded item.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// TagRef is a tag (label) reference as embedded on an expanded item.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRefs is the nested elements envelope for expanded categories.
type CategoryRefs struct {
	Elements []CategoryRef `json:"elements"`
}

// TagRefs is the nested elements envelope for expanded tags.
type TagRefs struct {
	Elements []TagRef `json:"elements"`
}

// Item is a raw catalog entry. Price is in minor units (cents).
type Item struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       int64         `json:"price"`
	Description string        `json:"description"`
	Image       *string       `json:"image"`
	SKU         string        `json:"sku"`
	Available   bool          `json:"available"`
	StockCount  int           `json:"stockCount"`
	Categories  *CategoryRefs `json:"categories"`
	Tags        *TagRefs      `json:"tags"`
}

// Category is an entry from the categories resource, used to resolve the
// id references on items into display names.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemStock is an entry from the item_stocks resource. Quantity is a
// number upstream (can be fractional for weighed goods).
type ItemStock struct {
	Item     Reference `json:"item"`
	Quantity float64   `json:"quantity"`
}
