package service

import (
	"context"

	"dish-analyzer/internal/model"
)

// AnalysisService runs one request-scoped analysis pass.
type AnalysisService interface {
	// Analyze loads the workbooks named by the request, merges the price list
	// and returns the computed report.
	Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error)

	// Thresholds returns the thresholds results are flagged with.
	Thresholds() model.Thresholds
}

// IngredientService manages the ingredient reference catalogue.
type IngredientService interface {
	// List retrieves every reference ingredient.
	List(ctx context.Context) ([]model.Ingredient, error)

	// Upsert validates the request and saves it under name.
	Upsert(ctx context.Context, name string, req *model.IngredientRequest) (*model.Ingredient, error)

	// Delete removes a reference ingredient.
	Delete(ctx context.Context, name string) error
}
