package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dish-analyzer/internal/model"
	"dish-analyzer/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ingredientService implements IngredientService.
type ingredientService struct {
	repo     repository.IngredientRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewIngredientService creates a new reference catalogue service.
func NewIngredientService(repo repository.IngredientRepository, logger zerolog.Logger) IngredientService {
	return &ingredientService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.With().Str("service", "ingredient").Logger(),
	}
}

func (s *ingredientService) List(ctx context.Context) ([]model.Ingredient, error) {
	ingredients, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list reference ingredients")
		return nil, fmt.Errorf("failed to list reference ingredients: %w", err)
	}

	s.logger.Debug().Int("count", len(ingredients)).Msg("retrieved reference ingredients")
	return ingredients, nil
}

func (s *ingredientService) Upsert(ctx context.Context, name string, req *model.IngredientRequest) (*model.Ingredient, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, &model.ValidationError{Field: "name", Message: "is required"}
	}
	if req == nil {
		return nil, &model.ValidationError{Field: "unitCost", Message: "is required"}
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if req.UnitCost == nil && req.CarbonFactor == nil {
		return nil, &model.ValidationError{Field: "unitCost", Message: "or carbonFactor is required"}
	}

	ing := model.Ingredient{
		Name:         name,
		UnitCost:     req.UnitCost,
		Unit:         req.Unit,
		CarbonFactor: req.CarbonFactor,
		Source:       model.SourceCatalogue,
	}
	if ing.Unit == "" {
		ing.Unit = "g"
	}
	if err := s.validate.Struct(ing); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Upsert(ctx, ing); err != nil {
		s.logger.Error().Err(err).Str("ingredient", name).Msg("failed to save reference ingredient")
		return nil, fmt.Errorf("failed to save reference ingredient: %w", err)
	}

	s.logger.Info().Str("ingredient", name).Bool("priced", ing.Priced()).Msg("reference ingredient saved")
	return &ing, nil
}

func (s *ingredientService) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrIngredientNotFound
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		if errors.Is(err, model.ErrIngredientNotFound) {
			s.logger.Debug().Str("ingredient", name).Msg("reference ingredient not found")
			return err
		}
		s.logger.Error().Err(err).Str("ingredient", name).Msg("failed to delete reference ingredient")
		return fmt.Errorf("failed to delete reference ingredient: %w", err)
	}

	s.logger.Info().Str("ingredient", name).Msg("reference ingredient deleted")
	return nil
}

// validationError converts the first validator failure into a ValidationError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &model.ValidationError{Field: "request", Message: err.Error()}
	}

	fe := verrs[0]
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "gte":
		msg = "must not be negative"
	case "max":
		msg = "must be at most " + fe.Param() + " characters"
	default:
		msg = "is invalid"
	}
	return &model.ValidationError{Field: field, Message: msg}
}
