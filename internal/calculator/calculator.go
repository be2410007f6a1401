// Package calculator joins recipe lines to ingredient prices and computes
// cost, margin and carbon estimates per dish.
package calculator

import (
	"fmt"

	"dish-analyzer/internal/model"

	"github.com/shopspring/decimal"
)

// Result holds the per-dish results of a calculation pass together with
// warnings that are not tied to a single dish.
type Result struct {
	Dishes   []model.DishResult
	Warnings []string
	// Unresolved counts recipe lines that could not be priced.
	Unresolved int
}

// Calculate produces one result per dish, in dish order.
//
// A line's own unit cost wins over the price list. A line with neither, or
// whose ingredient has only a carbon factor, adds a warning to its dish and
// contributes nothing to the cost or carbon totals. An ingredient without a
// carbon factor contributes zero carbon and marks the estimate as partial.
// Margin is only computed for a positive selling price.
func Calculate(ingredients map[string]model.Ingredient, lines []model.RecipeLine, dishes []model.Dish, thresholds model.Thresholds) Result {
	type accumulator struct {
		cost          decimal.Decimal
		carbon        decimal.Decimal
		costComplete  bool
		carbonPartial bool
		warnings      []string
	}

	acc := make(map[string]*accumulator, len(dishes))
	for _, d := range dishes {
		acc[model.NameKey(d.Name)] = &accumulator{costComplete: true}
	}

	var result Result

	for _, line := range lines {
		a, ok := acc[model.NameKey(line.Dish)]
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("recipe line for unknown dish %q ignored", line.Dish))
			continue
		}

		ing, found := ingredients[model.NameKey(line.Ingredient)]
		unitCost := line.UnitCost
		if unitCost == nil && found {
			unitCost = ing.UnitCost
		}
		if unitCost == nil {
			result.Unresolved++
			a.costComplete = false
			a.carbonPartial = true
			a.warnings = append(a.warnings,
				fmt.Sprintf("ingredient %q not found in price list", line.Ingredient))
			continue
		}

		qty := decimal.NewFromFloat(line.Quantity)
		a.cost = a.cost.Add(qty.Mul(decimal.NewFromFloat(*unitCost)))

		if !found || ing.CarbonFactor == nil {
			a.carbonPartial = true
			a.warnings = append(a.warnings,
				fmt.Sprintf("no carbon factor for ingredient %q", line.Ingredient))
			continue
		}
		a.carbon = a.carbon.Add(qty.Mul(decimal.NewFromFloat(*ing.CarbonFactor)))
	}

	result.Dishes = make([]model.DishResult, 0, len(dishes))
	for _, d := range dishes {
		a := acc[model.NameKey(d.Name)]
		r := model.DishResult{
			Name:          d.Name,
			SellingPrice:  d.SellingPrice,
			Cost:          a.cost.InexactFloat64(),
			Carbon:        a.carbon.InexactFloat64(),
			CostComplete:  a.costComplete,
			CarbonPartial: a.carbonPartial,
			Warnings:      a.warnings,
		}

		if d.SellingPrice != nil {
			price := decimal.NewFromFloat(*d.SellingPrice)
			profit := price.Sub(a.cost)
			r.Profit = float64Ptr(profit.InexactFloat64())

			if price.IsPositive() {
				r.Margin = float64Ptr(profit.Div(price).InexactFloat64())
			}
			if profit.IsPositive() {
				r.CarbonPerProfit = float64Ptr(a.carbon.Div(profit).InexactFloat64())
			}
		}

		r.Flags = flagsFor(r, thresholds)
		result.Dishes = append(result.Dishes, r)
	}

	return result
}

// flagsFor returns the threshold flags for a result.
func flagsFor(r model.DishResult, thresholds model.Thresholds) []model.Flag {
	var flags []model.Flag
	if r.Margin != nil && *r.Margin < thresholds.LowMargin {
		flags = append(flags, model.FlagLowMargin)
	}
	if r.Carbon > thresholds.HighCarbon {
		flags = append(flags, model.FlagHighCarbon)
	}
	return flags
}

func float64Ptr(v float64) *float64 {
	return &v
}
