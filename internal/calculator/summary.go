package calculator

import (
	"fmt"

	"dish-analyzer/internal/model"

	"github.com/montanaflynn/stats"
)

// Summarise aggregates dish results. Dishes without a margin are left out of
// the median margin; it is nil when no dish has one.
func Summarise(results []model.DishResult) model.Summary {
	summary := model.Summary{DishCount: len(results)}
	if len(results) == 0 {
		return summary
	}

	costs := make(stats.Float64Data, 0, len(results))
	carbons := make(stats.Float64Data, 0, len(results))
	margins := make(stats.Float64Data, 0, len(results))
	profits := make(stats.Float64Data, 0, len(results))

	for _, r := range results {
		costs = append(costs, r.Cost)
		carbons = append(carbons, r.Carbon)
		if r.Margin != nil {
			margins = append(margins, *r.Margin)
		}
		if r.Profit != nil {
			profits = append(profits, *r.Profit)
		}
		if r.HasFlag(model.FlagLowMargin) {
			summary.LowMarginCount++
		}
		if r.HasFlag(model.FlagHighCarbon) {
			summary.HighCarbonCount++
		}
		if !r.CostComplete {
			summary.IncompleteCount++
		}
	}

	summary.TotalCost, _ = costs.Sum()
	summary.AverageCost, _ = costs.Mean()
	summary.AverageCarbon, _ = carbons.Mean()
	if len(profits) > 0 {
		summary.TotalProfit, _ = profits.Sum()
	}
	if len(margins) > 0 {
		if median, err := margins.Median(); err == nil {
			summary.MedianMargin = &median
		}
	}

	return summary
}

// Observe returns the key observations shown on the dashboard and in the PDF.
func Observe(summary model.Summary, thresholds model.Thresholds) []string {
	observations := []string{
		fmt.Sprintf("%d dish(es) have a margin below %.0f%%", summary.LowMarginCount, thresholds.LowMargin*100),
		fmt.Sprintf("%d dish(es) exceed %.1fkg CO2e emissions", summary.HighCarbonCount, thresholds.HighCarbon),
	}
	if summary.IncompleteCount > 0 {
		observations = append(observations,
			fmt.Sprintf("%d dish(es) reference ingredients missing from the price list; their totals are partial", summary.IncompleteCount))
	}
	if summary.MedianMargin != nil {
		observations = append(observations,
			fmt.Sprintf("Median margin across priced dishes is %.1f%%", *summary.MedianMargin*100))
	}
	return observations
}
