package repository

import (
	"context"
	"sort"
	"sync"

	"dish-analyzer/internal/model"

	"github.com/rs/zerolog"
)

// memoryRepository is an IngredientRepository held in process memory.
// It is used when no database is configured.
type memoryRepository struct {
	mu          sync.RWMutex
	ingredients map[string]model.Ingredient
	logger      zerolog.Logger
}

// NewMemoryRepository creates an in-memory catalogue holding the given ingredients.
func NewMemoryRepository(seed []model.Ingredient, logger zerolog.Logger) IngredientRepository {
	r := &memoryRepository{
		ingredients: make(map[string]model.Ingredient, len(seed)),
		logger:      logger.With().Str("repository", "memory-ingredient").Logger(),
	}
	for _, ing := range seed {
		r.ingredients[ing.Key()] = withSource(ing)
	}
	return r
}

func (r *memoryRepository) List(ctx context.Context) ([]model.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Ingredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (r *memoryRepository) GetByNames(ctx context.Context, names []string) ([]model.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Ingredient{}
	for _, key := range nameKeys(names) {
		if ing, ok := r.ingredients[key]; ok {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (r *memoryRepository) Upsert(ctx context.Context, ingredient model.Ingredient) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ingredients[ingredient.Key()] = withSource(ingredient)
	r.logger.Debug().Str("ingredient", ingredient.Name).Msg("reference ingredient saved")
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := model.NameKey(name)
	if _, ok := r.ingredients[key]; !ok {
		return model.ErrIngredientNotFound
	}
	delete(r.ingredients, key)
	return nil
}

func withSource(ing model.Ingredient) model.Ingredient {
	ing.Source = model.SourceCatalogue
	if ing.Unit == "" {
		ing.Unit = "g"
	}
	return ing
}
