package catalog

import "strings"

// Category is the storefront's closed category set. Every normalized
// product carries exactly one of these values.
type Category string

const (
	CategoryWine    Category = "wine"
	CategorySpirits Category = "spirits"
	CategoryBeer    Category = "beer"
	CategorySeltzer Category = "seltzer"
	CategoryTHC     Category = "thc"
	CategoryOther   Category = "other"
)

// StorefrontCategories is the fixed list the storefront renders sections
// for, in display order. CategoryOther is a catch-all, not a section.
var StorefrontCategories = []Category{
	CategoryWine,
	CategorySpirits,
	CategoryBeer,
	CategorySeltzer,
	CategoryTHC,
}

// categoryKeywords maps each storefront category to the substrings that
// identify it in an upstream category name. The slice order is load
// bearing: Classify returns the first entry that matches, so e.g.
// "sparkling wine" resolves to wine before anything later in the table
// could claim it.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryWine, []string{"wine", "red wine", "white wine", "rosé", "sparkling"}},
	{CategorySpirits, []string{"spirits", "whiskey", "vodka", "rum", "gin", "tequila", "bourbon", "scotch"}},
	{CategoryBeer, []string{"beer", "ale", "lager", "craft beer"}},
	{CategorySeltzer, []string{"seltzer", "hard seltzer", "spritzer"}},
	{CategoryTHC, []string{"thc", "cannabis", "marijuana"}},
}

// Classify maps an upstream free-text category name to a storefront
// category. Matching is case-insensitive substring containment; the first
// table entry with a matching keyword wins. Unknown or empty names map to
// CategoryOther. Total over all string inputs, never errors.
func Classify(upstreamName string) Category {
	name := strings.ToLower(strings.TrimSpace(upstreamName))
	if name == "" {
		return CategoryOther
	}
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(name, keyword) {
				return entry.category
			}
		}
	}
	return CategoryOther
}
