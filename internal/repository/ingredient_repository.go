package repository

import (
	"context"
	"fmt"

	"dish-analyzer/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ingredientRepository implements the IngredientRepository interface using PostgreSQL.
type ingredientRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewIngredientRepository creates a new PostgreSQL-backed reference catalogue.
func NewIngredientRepository(pool *pgxpool.Pool, logger zerolog.Logger) IngredientRepository {
	return &ingredientRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "ingredient").Logger(),
	}
}

// List retrieves every reference ingredient ordered by name.
func (r *ingredientRepository) List(ctx context.Context) ([]model.Ingredient, error) {
	query := `
		SELECT name, unit_cost, unit, carbon_factor
		FROM ingredient_references
		ORDER BY name_key
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query reference ingredients")
		return nil, fmt.Errorf("failed to query reference ingredients: %w", err)
	}

	return r.collect(rows)
}

// GetByNames retrieves the reference ingredients matching the given names.
func (r *ingredientRepository) GetByNames(ctx context.Context, names []string) ([]model.Ingredient, error) {
	keys := nameKeys(names)
	if len(keys) == 0 {
		return []model.Ingredient{}, nil
	}

	query := `
		SELECT name, unit_cost, unit, carbon_factor
		FROM ingredient_references
		WHERE name_key = ANY($1)
		ORDER BY name_key
	`

	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(keys)).Msg("failed to query reference ingredients by name")
		return nil, fmt.Errorf("failed to query reference ingredients by name: %w", err)
	}

	return r.collect(rows)
}

func (r *ingredientRepository) collect(rows pgx.Rows) ([]model.Ingredient, error) {
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		ing := model.Ingredient{Source: model.SourceCatalogue}
		if err := rows.Scan(&ing.Name, &ing.UnitCost, &ing.Unit, &ing.CarbonFactor); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan ingredient row")
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating ingredient rows")
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// Upsert inserts the ingredient or replaces the entry with the same name.
func (r *ingredientRepository) Upsert(ctx context.Context, ingredient model.Ingredient) error {
	query := `
		INSERT INTO ingredient_references (name_key, name, unit_cost, unit, carbon_factor, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (name_key) DO UPDATE
		SET name = EXCLUDED.name,
			unit_cost = EXCLUDED.unit_cost,
			unit = EXCLUDED.unit,
			carbon_factor = EXCLUDED.carbon_factor,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		ingredient.Key(),
		ingredient.Name,
		ingredient.UnitCost,
		ingredient.Unit,
		ingredient.CarbonFactor,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("ingredient", ingredient.Name).Msg("failed to upsert reference ingredient")
		return fmt.Errorf("failed to upsert reference ingredient: %w", err)
	}

	r.logger.Debug().Str("ingredient", ingredient.Name).Msg("reference ingredient saved")
	return nil
}

// Delete removes an ingredient by name.
func (r *ingredientRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ingredient_references WHERE name_key = $1`, model.NameKey(name))
	if err != nil {
		r.logger.Error().Err(err).Str("ingredient", name).Msg("failed to delete reference ingredient")
		return fmt.Errorf("failed to delete reference ingredient: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("ingredient", name).Msg("reference ingredient not found")
		return model.ErrIngredientNotFound
	}

	return nil
}
