package model

import "strings"

// Ingredient sources, lowest precedence first.
const (
	SourceCatalogue = "catalogue"
	SourcePriceList = "price_list"
)

// Ingredient is an entry of the price list or the reference catalogue.
// Catalogue entries may carry only a carbon factor; such an entry never
// prices a recipe line.
type Ingredient struct {
	Name         string   `json:"name" db:"name" validate:"required,max=255"`
	UnitCost     *float64 `json:"unitCost,omitempty" db:"unit_cost" validate:"omitempty,gte=0"`
	Unit         string   `json:"unit" db:"unit" validate:"required,max=20"`
	CarbonFactor *float64 `json:"carbonFactor,omitempty" db:"carbon_factor" validate:"omitempty,gte=0"`
	Source       string   `json:"source,omitempty" db:"-"`
}

// Priced reports whether the ingredient has a unit cost.
func (i Ingredient) Priced() bool {
	return i.UnitCost != nil
}

// Key returns the lookup key for the ingredient name.
func (i Ingredient) Key() string {
	return NameKey(i.Name)
}

// NameKey normalises a dish or ingredient name for lookups.
// Names match case-insensitively with surrounding and repeated spaces ignored.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// IngredientRequest is the payload for upserting a reference ingredient.
// At least one of UnitCost and CarbonFactor must be set.
type IngredientRequest struct {
	UnitCost     *float64 `json:"unitCost" validate:"omitempty,gte=0"`
	Unit         string   `json:"unit" validate:"omitempty,max=20"`
	CarbonFactor *float64 `json:"carbonFactor,omitempty" validate:"omitempty,gte=0"`
}
