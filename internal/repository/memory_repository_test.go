package repository

import (
	"context"
	"testing"

	"dish-analyzer/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	catalogue := DefaultCatalogue()

	require.Len(t, catalogue, 23)
	for _, ing := range catalogue {
		assert.Equal(t, "g", ing.Unit, ing.Name)
		assert.Equal(t, model.SourceCatalogue, ing.Source, ing.Name)
		require.NotNil(t, ing.CarbonFactor, ing.Name)
		assert.Nil(t, ing.UnitCost, "built-in entries carry no price: %s", ing.Name)
	}

	assert.Equal(t, "Beef Mince", catalogue[1].Name)
	assert.InDelta(t, 0.027, *catalogue[1].CarbonFactor, 1e-12)
}

func TestDefaultCatalogue_ReturnsCopies(t *testing.T) {
	first := DefaultCatalogue()
	*first[0].CarbonFactor = 99

	second := DefaultCatalogue()
	assert.InDelta(t, 0.0011, *second[0].CarbonFactor, 1e-12)
}

func TestMemoryRepository_List(t *testing.T) {
	repo := NewMemoryRepository([]model.Ingredient{
		{Name: "Tofu", UnitCost: cost(0.007)},
		{Name: "avocado", UnitCost: cost(0.012), Unit: "g"},
	}, zerolog.Nop())

	ingredients, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "avocado", ingredients[0].Name)
	assert.Equal(t, "Tofu", ingredients[1].Name)
	assert.Equal(t, "g", ingredients[1].Unit, "unit defaults to grams")
	assert.Equal(t, model.SourceCatalogue, ingredients[1].Source)
}

func TestMemoryRepository_GetByNames(t *testing.T) {
	repo := NewMemoryRepository(DefaultCatalogue(), zerolog.Nop())

	ingredients, err := repo.GetByNames(context.Background(), []string{"soy sauce", "Pasta", "pasta", "Dragonfruit"})

	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Pasta", ingredients[0].Name)
	assert.Equal(t, "Soy Sauce", ingredients[1].Name)
}

func TestMemoryRepository_UpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, zerolog.Nop())

	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Lentils", UnitCost: cost(0.003), Unit: "g", Source: model.SourcePriceList}))
	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "LENTILS", UnitCost: cost(0.004), Unit: "g"}))

	ingredients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "LENTILS", ingredients[0].Name)
	assert.Equal(t, model.SourceCatalogue, ingredients[0].Source)

	require.NoError(t, repo.Delete(ctx, "lentils"))
	assert.ErrorIs(t, repo.Delete(ctx, "lentils"), model.ErrIngredientNotFound)
}

func TestMemoryRepository_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMemoryRepository(DefaultCatalogue(), zerolog.Nop())

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Upsert(ctx, model.Ingredient{Name: "x"}), context.Canceled)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, zerolog.Nop())

	n, err := SeedIfEmpty(ctx, repo, DefaultCatalogue())
	require.NoError(t, err)
	assert.Equal(t, 23, n)

	n, err = SeedIfEmpty(ctx, repo, []model.Ingredient{{Name: "Tofu", UnitCost: cost(0.007), Unit: "g"}})
	require.NoError(t, err)
	assert.Zero(t, n, "non-empty catalogue is left alone")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 23)
}
