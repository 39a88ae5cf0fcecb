/*
Package waste contains the core waste-collection domain: the fixed set of waste
categories, the upstream data provider contract and its RegioIT implementation,
the staged location resolver, and the event service that reports upcoming
collection dates.
*/
package waste

import "fmt"

// Category is the upstream integer code for a waste type ("Fraktion").
type Category int

// The categories collected in the supported district.
const (
	CategoryOrganic  Category = 0
	CategoryPlastic  Category = 1
	CategoryPaper    Category = 4
	CategoryResidual Category = 7
)

// categoryNames maps category codes to their German display names.
// The set is closed and known at compile time.
var categoryNames = map[Category]string{
	CategoryOrganic:  "Biomüll",
	CategoryPlastic:  "Gelber Sack",
	CategoryPaper:    "Papiermüll",
	CategoryResidual: "Restmüll",
}

// Name returns the display name of the category. Unknown codes get a fallback
// label instead of failing, since upstream may add new Fraktion codes at any time.
func (c Category) Name() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unbekannte Abfallart (%d)", int(c))
}

// KnownCategories returns all known category codes, used as the filter for
// reminder notifications.
func KnownCategories() []Category {
	return []Category{CategoryOrganic, CategoryPlastic, CategoryPaper, CategoryResidual}
}
