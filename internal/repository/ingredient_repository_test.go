package repository

import (
	"context"
	"testing"
	"time"

	"dish-analyzer/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, EnsureSchema(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func carbon(v float64) *float64 {
	return &v
}

func cost(v float64) *float64 {
	return &v
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, EnsureSchema(context.Background(), pool))
}

func TestIngredientRepository_UpsertAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewIngredientRepository(pool, zerolog.Nop())

	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Tomato", UnitCost: cost(0.004), Unit: "g", CarbonFactor: carbon(0.0014)}))
	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Basil", UnitCost: cost(0.05), Unit: "g"}))

	ingredients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, ingredients, 2)

	assert.Equal(t, "Basil", ingredients[0].Name)
	assert.Nil(t, ingredients[0].CarbonFactor)
	assert.Equal(t, model.SourceCatalogue, ingredients[0].Source)

	tomato := ingredients[1]
	assert.Equal(t, "Tomato", tomato.Name)
	assert.InDelta(t, 0.004, *tomato.UnitCost, 1e-9)
	require.NotNil(t, tomato.CarbonFactor)
	assert.InDelta(t, 0.0014, *tomato.CarbonFactor, 1e-12)
}

func TestIngredientRepository_CarbonOnlyEntry(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewIngredientRepository(pool, zerolog.Nop())

	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Lentils", Unit: "g", CarbonFactor: carbon(0.0009)}))

	ingredients, err := repo.GetByNames(ctx, []string{"lentils"})
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Nil(t, ingredients[0].UnitCost)
	assert.False(t, ingredients[0].Priced())
	require.NotNil(t, ingredients[0].CarbonFactor)
	assert.InDelta(t, 0.0009, *ingredients[0].CarbonFactor, 1e-12)
}

func TestIngredientRepository_UpsertReplacesByName(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewIngredientRepository(pool, zerolog.Nop())

	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Soy Sauce", UnitCost: cost(0.006), Unit: "g"}))
	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "soy  sauce", UnitCost: cost(0.007), Unit: "ml", CarbonFactor: carbon(0.0032)}))

	ingredients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "soy  sauce", ingredients[0].Name)
	assert.Equal(t, "ml", ingredients[0].Unit)
	assert.InDelta(t, 0.007, *ingredients[0].UnitCost, 1e-9)
}

func TestIngredientRepository_GetByNames(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewIngredientRepository(pool, zerolog.Nop())

	for _, ing := range DefaultCatalogue() {
		require.NoError(t, repo.Upsert(ctx, ing))
	}

	tests := []struct {
		name     string
		names    []string
		expected []string
	}{
		{
			name:     "Case-insensitive match",
			names:    []string{"beef mince", "TOFU"},
			expected: []string{"Beef Mince", "Tofu"},
		},
		{
			name:     "Unknown names are skipped",
			names:    []string{"Tofu", "Unobtainium"},
			expected: []string{"Tofu"},
		},
		{
			name:     "Duplicates collapse",
			names:    []string{"Tofu", "tofu", " Tofu "},
			expected: []string{"Tofu"},
		},
		{
			name:     "Empty input",
			names:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingredients, err := repo.GetByNames(ctx, tt.names)
			require.NoError(t, err)

			names := []string{}
			for _, ing := range ingredients {
				names = append(names, ing.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestIngredientRepository_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewIngredientRepository(pool, zerolog.Nop())

	require.NoError(t, repo.Upsert(ctx, model.Ingredient{Name: "Quinoa", UnitCost: cost(0.009), Unit: "g"}))

	require.NoError(t, repo.Delete(ctx, "QUINOA"))
	assert.ErrorIs(t, repo.Delete(ctx, "Quinoa"), model.ErrIngredientNotFound)

	ingredients, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ingredients)
}

func TestIngredientRepository_ContextCancelled(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewIngredientRepository(pool, zerolog.Nop())

	_, err := repo.List(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query reference ingredients")
}
