package router

import (
	"net/http"

	"dish-analyzer/internal/handler"
	"dish-analyzer/internal/metrics"
	"dish-analyzer/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Dashboard  *handler.DashboardHandler
	Analysis   *handler.AnalysisHandler
	Ingredient *handler.IngredientHandler
}

// Options configures authentication and rate limiting.
type Options struct {
	APIKey      string
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	Metrics     *metrics.Metrics
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> CorrelationID -> Logging -> Metrics -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.CORS)

	limited := func(next http.Handler) http.Handler {
		if opts.RateLimiter == nil {
			return next
		}
		return opts.RateLimiter.Handler(next)
	}

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "healthy"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/", h.Dashboard.Index)
	r.With(limited).Post("/", h.Dashboard.Submit)
	r.Get("/template", h.Dashboard.Template)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

		r.Group(func(r chi.Router) {
			r.Use(limited)
			r.Post("/analyses", h.Analysis.Analyze)
			r.Post("/exports/xlsx", h.Analysis.ExportExcel)
			r.Post("/exports/pdf", h.Analysis.ExportPDF)
			r.Post("/charts/{kind}", h.Analysis.Chart)
		})

		r.Get("/ingredients", h.Ingredient.List)
		r.Put("/ingredients/{name}", h.Ingredient.Upsert)
		r.Delete("/ingredients/{name}", h.Ingredient.Delete)
	})

	return r
}
