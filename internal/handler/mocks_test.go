package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"dish-analyzer/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalysisService is a mock implementation of AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockAnalysisService) Thresholds() model.Thresholds {
	args := m.Called()
	return args.Get(0).(model.Thresholds)
}

// MockIngredientService is a mock implementation of IngredientService.
type MockIngredientService struct {
	mock.Mock
}

func (m *MockIngredientService) List(ctx context.Context) ([]model.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

func (m *MockIngredientService) Upsert(ctx context.Context, name string, req *model.IngredientRequest) (*model.Ingredient, error) {
	args := m.Called(ctx, name, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

func (m *MockIngredientService) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func ptr(v float64) *float64 {
	return &v
}

// testReport is the report for Bread (Flour 200g at €0.01/g, 4 kg CO2e per kg)
// and an unpriced staff meal.
func testReport() *model.Report {
	return &model.Report{
		ID:          uuid.MustParse("0b9d1c52-63f4-4c63-9a55-3f8e2f1d7a10"),
		GeneratedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		Thresholds:  model.DefaultThresholds(),
		Dishes: []model.DishResult{
			{
				Name:            "Bread",
				SellingPrice:    ptr(5),
				Cost:            2,
				Carbon:          0.8,
				Margin:          ptr(0.6),
				Profit:          ptr(3),
				CarbonPerProfit: ptr(0.8 / 3),
				CostComplete:    true,
			},
			{
				Name:         "Staff Meal",
				SellingPrice: ptr(0),
				Cost:         1.5,
				Carbon:       3.5,
				CostComplete: false,
				Warnings:     []string{`ingredient "Saffron" not found in price list`},
				Flags:        []model.Flag{model.FlagHighCarbon},
			},
		},
		Summary: model.Summary{
			DishCount:       2,
			TotalCost:       3.5,
			AverageCost:     1.75,
			AverageCarbon:   2.15,
			MedianMargin:    ptr(0.6),
			TotalProfit:     3,
			HighCarbonCount: 1,
			IncompleteCount: 1,
		},
		Warnings: []string{`price spreadsheet: row 4: duplicate ingredient "Flour" replaces an earlier row`},
		Observations: []string{
			"0 dish(es) have a margin below 60%",
			"1 dish(es) exceed 3.0kg CO2e emissions",
		},
	}
}

// upload builds a multipart body with one file per field.
func upload(t *testing.T, files map[string]string, content []byte) (io.Reader, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, filename := range files {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}
