package model

import (
	"time"

	"github.com/google/uuid"
)

// Dish is a menu item from the dish template.
type Dish struct {
	Name         string   `json:"name" validate:"required,max=255"`
	SellingPrice *float64 `json:"sellingPrice,omitempty" validate:"omitempty,gte=0"`
	Row          int      `json:"-"`
}

// RecipeLine is the quantity of one ingredient used by a dish. UnitCost is
// the cost per unit given on the dish row itself and takes precedence over
// the price list.
type RecipeLine struct {
	Dish       string   `json:"dish" validate:"required"`
	Ingredient string   `json:"ingredient" validate:"required,max=255"`
	Quantity   float64  `json:"quantity" validate:"gt=0"`
	UnitCost   *float64 `json:"unitCost,omitempty" validate:"omitempty,gte=0"`
	Row        int      `json:"-"`
}

// Flag marks a dish result that crossed an analysis threshold.
type Flag string

const (
	FlagLowMargin  Flag = "LOW_MARGIN"
	FlagHighCarbon Flag = "HIGH_CARBON"
)

// Label returns the human-readable flag text.
func (f Flag) Label() string {
	switch f {
	case FlagLowMargin:
		return "Low margin"
	case FlagHighCarbon:
		return "High CO2e"
	default:
		return string(f)
	}
}

// DishResult is the computed cost, margin and carbon estimate for one dish.
// Nil pointers mean the value is not applicable.
type DishResult struct {
	Name            string   `json:"name"`
	SellingPrice    *float64 `json:"sellingPrice"`
	Cost            float64  `json:"cost"`
	Carbon          float64  `json:"carbon"`
	Margin          *float64 `json:"margin"`
	Profit          *float64 `json:"profit"`
	CarbonPerProfit *float64 `json:"carbonPerProfit"`
	CostComplete    bool     `json:"costComplete"`
	CarbonPartial   bool     `json:"carbonPartial"`
	Warnings        []string `json:"warnings,omitempty"`
	Flags           []Flag   `json:"flags,omitempty"`
}

// HasFlag reports whether the result carries the given flag.
func (r DishResult) HasFlag(flag Flag) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Thresholds configures when results are flagged.
type Thresholds struct {
	LowMargin  float64 `json:"lowMargin"`
	HighCarbon float64 `json:"highCarbon"`
}

// DefaultThresholds returns a 60% minimum margin and a 3 kg CO2e carbon limit.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowMargin:  0.60,
		HighCarbon: 3.0,
	}
}

// Summary aggregates a set of dish results.
type Summary struct {
	DishCount       int      `json:"dishCount"`
	TotalCost       float64  `json:"totalCost"`
	AverageCost     float64  `json:"averageCost"`
	AverageCarbon   float64  `json:"averageCarbon"`
	MedianMargin    *float64 `json:"medianMargin"`
	TotalProfit     float64  `json:"totalProfit"`
	LowMarginCount  int      `json:"lowMarginCount"`
	HighCarbonCount int      `json:"highCarbonCount"`
	IncompleteCount int      `json:"incompleteCount"`
}

// Report is the outcome of one analysis pass.
type Report struct {
	ID           uuid.UUID    `json:"id"`
	GeneratedAt  time.Time    `json:"generatedAt"`
	Thresholds   Thresholds   `json:"thresholds"`
	Dishes       []DishResult `json:"dishes"`
	Summary      Summary      `json:"summary"`
	Warnings     []string     `json:"warnings,omitempty"`
	Observations []string     `json:"observations"`
}

// AnalysisRequest carries the workbooks for one analysis.
// Uploaded bytes take precedence over source keys.
type AnalysisRequest struct {
	DishWorkbook  []byte `json:"-"`
	PriceWorkbook []byte `json:"-"`
	DishKey       string `json:"dishKey,omitempty" validate:"omitempty,max=1024"`
	PriceKey      string `json:"priceKey,omitempty" validate:"omitempty,max=1024"`
}

// HasDishes reports whether a dish workbook was supplied in any form.
func (r *AnalysisRequest) HasDishes() bool {
	return len(r.DishWorkbook) > 0 || r.DishKey != ""
}

// HasPrices reports whether a price workbook was supplied in any form.
func (r *AnalysisRequest) HasPrices() bool {
	return len(r.PriceWorkbook) > 0 || r.PriceKey != ""
}
