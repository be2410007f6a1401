package repository

import (
	"context"
	"fmt"

	"dish-analyzer/internal/model"
)

// IngredientRepository defines the data access operations for the ingredient
// reference catalogue. Names are matched with model.NameKey.
type IngredientRepository interface {
	// List retrieves every reference ingredient ordered by name.
	List(ctx context.Context) ([]model.Ingredient, error)

	// GetByNames retrieves the reference ingredients matching the given names.
	// Unknown names are skipped.
	GetByNames(ctx context.Context, names []string) ([]model.Ingredient, error)

	// Upsert inserts the ingredient or replaces the entry with the same name.
	Upsert(ctx context.Context, ingredient model.Ingredient) error

	// Delete removes an ingredient.
	// Returns model.ErrIngredientNotFound if no entry has that name.
	Delete(ctx context.Context, name string) error
}

// nameKeys returns the distinct lookup keys for names.
func nameKeys(names []string) []string {
	seen := make(map[string]bool, len(names))
	keys := make([]string, 0, len(names))
	for _, n := range names {
		k := model.NameKey(n)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// SeedIfEmpty stores items when the repository holds no ingredients and
// returns how many were written.
func SeedIfEmpty(ctx context.Context, repo IngredientRepository, items []model.Ingredient) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check catalogue: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, item := range items {
		if err := repo.Upsert(ctx, item); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", item.Name, err)
		}
	}
	return len(items), nil
}
