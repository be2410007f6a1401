package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"dish-analyzer/internal/chart"
	"dish-analyzer/internal/config"
	"dish-analyzer/internal/export"
	"dish-analyzer/internal/metrics"
	"dish-analyzer/internal/model"
	"dish-analyzer/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Export formats, also used as metric labels.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// AnalysisHandler handles analysis, export and chart requests.
type AnalysisHandler struct {
	service  service.AnalysisService
	metrics  *metrics.Metrics
	theme    config.Theme
	maxBytes int64
	logger   zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(
	service service.AnalysisService,
	m *metrics.Metrics,
	theme config.Theme,
	maxBytes int64,
	logger zerolog.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		metrics:  m,
		theme:    theme,
		maxBytes: maxBytes,
		logger:   logger.With().Str("handler", "analysis").Logger(),
	}
}

// Analyze handles POST /api/analyses.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// ExportExcel handles POST /api/exports/xlsx.
func (h *AnalysisHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}

	buf := &bytes.Buffer{}
	if err := export.WriteExcel(buf, report); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.observeExport(FormatXLSX)
	attachment(w, xlsxContentType, "dish-analysis.xlsx", buf.Bytes())
}

// ExportPDF handles POST /api/exports/pdf.
func (h *AnalysisHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r)
	if !ok {
		return
	}

	data, err := renderPDF(report, h.theme)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.observeExport(FormatPDF)
	attachment(w, "application/pdf", "dish-analysis.pdf", data)
}

// Chart handles POST /api/charts/{kind}.
func (h *AnalysisHandler) Chart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	report, ok := h.run(w, r)
	if !ok {
		return
	}

	buf := &bytes.Buffer{}
	if err := chart.Render(buf, kind, report.Dishes, chartStyle(h.theme)); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// run decodes the request and analyses it, writing the error response on
// failure.
func (h *AnalysisHandler) run(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	req, err := readAnalysisRequest(w, r, h.maxBytes)
	if err != nil {
		writeError(w, r, err, h.logger)
		return nil, false
	}

	report, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return nil, false
	}
	return report, true
}

func (h *AnalysisHandler) observeExport(format string) {
	if h.metrics != nil {
		h.metrics.ObserveExport(format)
	}
}

// renderPDF writes the branded PDF report with every chart that has data.
func renderPDF(report *model.Report, theme config.Theme) ([]byte, error) {
	charts, err := export.RenderCharts(report.Dishes, chartStyle(theme))
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	err = export.WritePDF(buf, report, export.PDFOptions{
		Title:        theme.ReportTitle,
		Tagline:      theme.Tagline,
		AccentColour: theme.AccentColour,
		Logo:         theme.Logo,
		Charts:       charts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func chartStyle(theme config.Theme) chart.Style {
	style, err := chart.StyleFromHex(theme.AccentColour, theme.BackgroundColour, theme.TextColour)
	if err != nil {
		return chart.DefaultStyle()
	}
	return style
}
