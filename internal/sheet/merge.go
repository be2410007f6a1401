package sheet

import "dish-analyzer/internal/model"

// MergePriceList merges ingredient layers into a price list keyed by
// model.NameKey. Layers are given lowest precedence first. A later layer with
// a unit cost replaces the unit cost, unit and source of an earlier one; a
// later layer without one keeps them. The carbon factor comes from the
// highest layer that has one.
func MergePriceList(layers ...[]model.Ingredient) map[string]model.Ingredient {
	merged := make(map[string]model.Ingredient)

	for _, layer := range layers {
		for _, ing := range layer {
			key := ing.Key()
			if key == "" {
				continue
			}
			if prev, ok := merged[key]; ok {
				if ing.CarbonFactor == nil {
					ing.CarbonFactor = prev.CarbonFactor
				}
				if !ing.Priced() {
					ing.UnitCost = prev.UnitCost
					ing.Unit = prev.Unit
					ing.Source = prev.Source
				}
			}
			if ing.Unit == "" {
				ing.Unit = DefaultUnit
			}
			merged[key] = ing
		}
	}

	return merged
}
