package repository

import "dish-analyzer/internal/model"

// defaultReference lists emission factors in kg CO2e per kilogram. It holds
// no prices: costs only ever come from the spreadsheets or from entries an
// operator priced through the API.
var defaultReference = []struct {
	name      string
	co2ePerKg float64
}{
	{"Pasta", 1.1},
	{"Beef Mince", 27.0},
	{"Tomato Sauce", 2.5},
	{"Chicken Breast", 6.9},
	{"Lettuce", 0.8},
	{"Cucumber", 0.4},
	{"Chickpeas", 0.9},
	{"Tomato", 1.4},
	{"Coconut Milk", 2.9},
	{"White Fish", 5.5},
	{"Bun", 1.2},
	{"Tortilla", 1.0},
	{"Cheese", 13.5},
	{"Arborio Rice", 1.8},
	{"Mushrooms", 1.2},
	{"Parmesan", 10.0},
	{"Yogurt", 2.1},
	{"Quinoa", 1.5},
	{"Avocado", 2.2},
	{"Couscous", 1.7},
	{"Tofu", 1.9},
	{"Broccoli", 0.6},
	{"Soy Sauce", 3.2},
}

// DefaultCatalogue returns the built-in reference ingredients, rated per
// gram and without a unit cost.
func DefaultCatalogue() []model.Ingredient {
	out := make([]model.Ingredient, 0, len(defaultReference))
	for _, ref := range defaultReference {
		factor := ref.co2ePerKg / 1000
		out = append(out, model.Ingredient{
			Name:         ref.name,
			Unit:         "g",
			CarbonFactor: &factor,
			Source:       model.SourceCatalogue,
		})
	}
	return out
}
