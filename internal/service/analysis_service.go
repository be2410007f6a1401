package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"dish-analyzer/internal/calculator"
	"dish-analyzer/internal/metrics"
	"dish-analyzer/internal/model"
	"dish-analyzer/internal/repository"
	"dish-analyzer/internal/sheet"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AnalysisOptions configures an AnalysisService.
type AnalysisOptions struct {
	Thresholds model.Thresholds
	// UseCatalogue layers the reference catalogue under the price list.
	UseCatalogue bool
	// Timeout bounds one analysis; zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// analysisService implements AnalysisService.
type analysisService struct {
	source  sheet.Source
	catalog repository.IngredientRepository
	metrics *metrics.Metrics
	opts    AnalysisOptions
	logger  zerolog.Logger
}

// NewAnalysisService creates a new analysis service. source resolves workbook
// keys and may be nil when only uploads are accepted; catalog and m may be nil.
func NewAnalysisService(
	source sheet.Source,
	catalog repository.IngredientRepository,
	m *metrics.Metrics,
	opts AnalysisOptions,
	logger zerolog.Logger,
) AnalysisService {
	return &analysisService{
		source:  source,
		catalog: catalog,
		metrics: m,
		opts:    opts,
		logger:  logger.With().Str("service", "analysis").Logger(),
	}
}

func (s *analysisService) Thresholds() model.Thresholds {
	return s.opts.Thresholds
}

// Analyze loads the dish and price workbooks concurrently, merges the
// catalogue, template and price list layers and calculates every dish.
func (s *analysisService) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error) {
	start := time.Now()

	report, unresolved, err := s.analyze(ctx, req)

	if s.metrics != nil {
		dishes := 0
		if report != nil {
			dishes = len(report.Dishes)
		}
		s.metrics.ObserveAnalysis(outcomeOf(err), time.Since(start), dishes, unresolved)
	}

	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("report_id", report.ID.String()).
		Int("dishes", len(report.Dishes)).
		Int("warnings", len(report.Warnings)).
		Int("unresolved_lines", unresolved).
		Dur("duration", time.Since(start)).
		Msg("analysis completed")

	return report, nil
}

func (s *analysisService) analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, int, error) {
	if req == nil || !req.HasDishes() {
		s.logger.Warn().Msg("analysis requested without a dish spreadsheet")
		return nil, 0, model.ErrDishFileRequired
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	var (
		dishes        *sheet.DishSheet
		prices        []model.Ingredient
		priceWarnings []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rc, err := s.open(gctx, req.DishWorkbook, req.DishKey)
		if err != nil {
			return err
		}
		defer rc.Close()

		dishes, err = sheet.ReadDishes(rc)
		return err
	})
	if req.HasPrices() {
		g.Go(func() error {
			rc, err := s.open(gctx, req.PriceWorkbook, req.PriceKey)
			if err != nil {
				return err
			}
			defer rc.Close()

			prices, priceWarnings, err = sheet.ReadPrices(rc)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		var sheetErr *model.SheetError
		if errors.As(err, &sheetErr) {
			s.logger.Warn().Err(err).Msg("spreadsheet rejected")
		} else {
			s.logger.Error().Err(err).Msg("failed to load spreadsheets")
		}
		return nil, 0, err
	}

	var warnings []string
	for _, w := range dishes.Warnings {
		warnings = append(warnings, sheet.DishFile+": "+w)
	}
	for _, w := range priceWarnings {
		warnings = append(warnings, sheet.PriceFile+": "+w)
	}

	catalogue, err := s.catalogue(ctx, dishes.Lines)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reference catalogue unavailable, continuing without it")
		warnings = append(warnings, "reference catalogue unavailable; only spreadsheet prices were used")
	}

	merged := sheet.MergePriceList(catalogue, prices)
	result := calculator.Calculate(merged, dishes.Lines, dishes.Dishes, s.opts.Thresholds)
	warnings = append(warnings, result.Warnings...)

	summary := calculator.Summarise(result.Dishes)

	return &model.Report{
		ID:           uuid.New(),
		GeneratedAt:  time.Now().UTC(),
		Thresholds:   s.opts.Thresholds,
		Dishes:       result.Dishes,
		Summary:      summary,
		Warnings:     warnings,
		Observations: calculator.Observe(summary, s.opts.Thresholds),
	}, result.Unresolved, nil
}

// open returns the uploaded bytes when present, otherwise the workbook stored
// under key.
func (s *analysisService) open(ctx context.Context, upload []byte, key string) (io.ReadCloser, error) {
	if len(upload) > 0 {
		return io.NopCloser(bytes.NewReader(upload)), nil
	}
	if s.source == nil {
		return nil, model.ErrSourceUnavailable
	}
	rc, err := s.source.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return rc, nil
}

// catalogue fetches reference entries for the ingredients used by lines.
func (s *analysisService) catalogue(ctx context.Context, lines []model.RecipeLine) ([]model.Ingredient, error) {
	if !s.opts.UseCatalogue || s.catalog == nil || len(lines) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, l.Ingredient)
	}
	return s.catalog.GetByNames(ctx, names)
}

func outcomeOf(err error) string {
	var (
		sheetErr  *model.SheetError
		domainErr *model.DomainError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &sheetErr):
		return metrics.OutcomeMalformed
	case errors.As(err, &domainErr):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
