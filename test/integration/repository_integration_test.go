package integration

import (
	"context"
	"testing"

	"dish-analyzer/internal/model"
	"dish-analyzer/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestIngredientRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewIngredientRepository(testDB.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Upsert then List round trips values", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Leek", UnitCost: ptr(0.0215), Unit: "g", CarbonFactor: ptr(0.0009)}))
		require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Bay Leaf", UnitCost: ptr(0.5), Unit: "g"}))

		ingredients, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, ingredients, 2)

		assert.Equal(t, "Bay Leaf", ingredients[0].Name)
		assert.Nil(t, ingredients[0].CarbonFactor)
		assert.Equal(t, model.SourceCatalogue, ingredients[0].Source)

		assert.Equal(t, "Leek", ingredients[1].Name)
		assert.InDelta(t, 0.0215, *ingredients[1].UnitCost, 1e-9)
		require.NotNil(t, ingredients[1].CarbonFactor)
		assert.InDelta(t, 0.0009, *ingredients[1].CarbonFactor, 1e-12)
	})

	t.Run("Upsert replaces entries matching case-insensitively", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Leek", UnitCost: ptr(0.02), Unit: "g"}))
		require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "  LEEK ", UnitCost: ptr(0.03), Unit: "g"}))

		ingredients, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, ingredients, 1)
		assert.InDelta(t, 0.03, *ingredients[0].UnitCost, 1e-9)
	})

	t.Run("GetByNames skips unknown names", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Leek", UnitCost: ptr(0.02), Unit: "g"}))
		require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Potato", UnitCost: ptr(0.002), Unit: "g"}))

		ingredients, err := repo.GetByNames(ctx, []string{"leek", "Leek", "Truffle"})
		require.NoError(t, err)
		require.Len(t, ingredients, 1)
		assert.Equal(t, "Leek", ingredients[0].Name)
	})

	t.Run("GetByNames with no names returns empty", func(t *testing.T) {
		ingredients, err := repo.GetByNames(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, ingredients)
	})

	t.Run("Delete of unknown name returns not found", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		err := repo.Delete(ctx, "Truffle")
		assert.ErrorIs(t, err, model.ErrIngredientNotFound)
	})

	t.Run("SeedIfEmpty seeds once", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		catalogue := repository.DefaultCatalogue()

		seeded, err := repository.SeedIfEmpty(ctx, repo, catalogue)
		require.NoError(t, err)
		assert.Equal(t, len(catalogue), seeded)

		seeded, err = repository.SeedIfEmpty(ctx, repo, catalogue)
		require.NoError(t, err)
		assert.Zero(t, seeded)

		ingredients, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, ingredients, len(catalogue))
	})

	t.Run("EnsureSchema is idempotent", func(t *testing.T) {
		require.NoError(t, repository.EnsureSchema(ctx, testDB.Pool))
	})
}
