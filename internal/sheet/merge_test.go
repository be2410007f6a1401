package sheet

import (
	"testing"

	"dish-analyzer/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factor(v float64) *float64 {
	return &v
}

func TestMergePriceList_Precedence(t *testing.T) {
	catalogue := []model.Ingredient{
		{Name: "Tomato", UnitCost: factor(0.003), Unit: "g", CarbonFactor: factor(0.0014), Source: model.SourceCatalogue},
		{Name: "Cheese", UnitCost: factor(0.02), Unit: "g", CarbonFactor: factor(0.0135), Source: model.SourceCatalogue},
		{Name: "Basil", UnitCost: factor(0.05), Unit: "g", Source: model.SourceCatalogue},
	}
	prices := []model.Ingredient{
		{Name: "TOMATO", UnitCost: factor(0.005), Unit: "g", Source: model.SourcePriceList},
		{Name: "Cheese", UnitCost: factor(0.018), Unit: "g", CarbonFactor: factor(0.012), Source: model.SourcePriceList},
	}

	merged := MergePriceList(catalogue, prices)

	require.Len(t, merged, 3)

	tomato := merged["tomato"]
	assert.Equal(t, "TOMATO", tomato.Name)
	assert.InDelta(t, 0.005, *tomato.UnitCost, 1e-12)
	assert.Equal(t, model.SourcePriceList, tomato.Source)
	require.NotNil(t, tomato.CarbonFactor, "carbon factor is kept from a lower layer")
	assert.InDelta(t, 0.0014, *tomato.CarbonFactor, 1e-12)

	cheese := merged["cheese"]
	assert.InDelta(t, 0.018, *cheese.UnitCost, 1e-12)
	assert.InDelta(t, 0.012, *cheese.CarbonFactor, 1e-12)

	basil := merged["basil"]
	assert.Equal(t, model.SourceCatalogue, basil.Source)
	assert.Nil(t, basil.CarbonFactor)
}

func TestMergePriceList_CarbonOnlyLayers(t *testing.T) {
	catalogue := []model.Ingredient{
		{Name: "Beef Mince", Unit: "g", CarbonFactor: factor(0.027), Source: model.SourceCatalogue},
		{Name: "Lentils", Unit: "g", CarbonFactor: factor(0.0009), Source: model.SourceCatalogue},
	}
	prices := []model.Ingredient{
		{Name: "beef mince", UnitCost: factor(0.0135), Unit: "g", Source: model.SourcePriceList},
	}

	merged := MergePriceList(catalogue, prices)

	beef := merged["beef mince"]
	assert.True(t, beef.Priced())
	assert.InDelta(t, 0.0135, *beef.UnitCost, 1e-12)
	require.NotNil(t, beef.CarbonFactor)
	assert.InDelta(t, 0.027, *beef.CarbonFactor, 1e-12)

	lentils := merged["lentils"]
	assert.False(t, lentils.Priced(), "a carbon-only entry stays unpriced")
}

func TestMergePriceList_UnpricedLayerKeepsLowerCost(t *testing.T) {
	merged := MergePriceList(
		[]model.Ingredient{{Name: "Rice", UnitCost: factor(0.002), Unit: "g", Source: model.SourceCatalogue}},
		[]model.Ingredient{{Name: "Rice", CarbonFactor: factor(0.004), Source: model.SourcePriceList}},
	)

	rice := merged["rice"]
	require.True(t, rice.Priced())
	assert.InDelta(t, 0.002, *rice.UnitCost, 1e-12)
	assert.Equal(t, model.SourceCatalogue, rice.Source)
	assert.InDelta(t, 0.004, *rice.CarbonFactor, 1e-12)
}

func TestMergePriceList_DefaultsAndBlanks(t *testing.T) {
	merged := MergePriceList(
		[]model.Ingredient{{Name: "  ", UnitCost: factor(1)}},
		[]model.Ingredient{{Name: "Flour", UnitCost: factor(0.5)}},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, DefaultUnit, merged["flour"].Unit)
}

func TestMergePriceList_NoLayers(t *testing.T) {
	assert.Empty(t, MergePriceList())
}
