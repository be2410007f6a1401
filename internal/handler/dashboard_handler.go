package handler

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"dish-analyzer/internal/config"
	"dish-analyzer/internal/export"
	"dish-analyzer/internal/model"
	"dish-analyzer/internal/service"
	"dish-analyzer/internal/sheet"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DashboardHandler serves the upload form and the results page. Each results
// page carries its charts and downloads inline, so nothing is stored between
// requests.
type DashboardHandler struct {
	service        service.AnalysisService
	theme          config.Theme
	templateGroups int
	maxBytes       int64
	logger         zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(
	service service.AnalysisService,
	theme config.Theme,
	templateGroups int,
	maxBytes int64,
	logger zerolog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		service:        service,
		theme:          theme,
		templateGroups: templateGroups,
		maxBytes:       maxBytes,
		logger:         logger.With().Str("handler", "dashboard").Logger(),
	}
}

type dashboardView struct {
	Theme      config.Theme
	Accent     template.CSS
	Background template.CSS
	Text       template.CSS
	LogoURI    template.URL
	MaxUpload  string
	Error      string

	Report       *model.Report
	Rows         []rowView
	HasPartial   bool
	Observations template.HTML
	Warnings     []string
	Charts       []chartView
	ExcelURI     template.URL
	PDFURI       template.URL
}

type rowView struct {
	Name         string
	SellingPrice string
	Cost         string
	Margin       string
	Carbon       string
	Partial      bool
	Flags        []string
}

type chartView struct {
	Title string
	URI   template.URL
}

// Index handles GET /.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.view())
}

// Submit handles POST / with the dish and price workbooks.
func (h *DashboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view := h.view()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	req, err := readUpload(r, h.maxBytes)
	if err == nil {
		var report *model.Report
		report, err = h.service.Analyze(r.Context(), req)
		if err == nil {
			err = h.fill(&view, report)
		}
	}

	if err != nil {
		status, code, message := classify(err)
		h.logger.Warn().Err(err).Str("code", code).Int("status", status).Msg("dashboard analysis failed")
		view.Error = message
		view.Report = nil
		h.render(w, status, view)
		return
	}

	h.render(w, http.StatusOK, view)
}

// Template handles GET /template. ?kind=prices returns the price list template.
func (h *DashboardHandler) Template(w http.ResponseWriter, r *http.Request) {
	buf := &bytes.Buffer{}
	filename := "dish-template.xlsx"

	var err error
	if r.URL.Query().Get("kind") == "prices" {
		filename = "price-template.xlsx"
		err = sheet.WritePriceTemplate(buf)
	} else {
		err = sheet.WriteTemplate(buf, h.templateGroups)
	}
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	attachment(w, xlsxContentType, filename, buf.Bytes())
}

func (h *DashboardHandler) view() dashboardView {
	view := dashboardView{
		Theme:      h.theme,
		Accent:     template.CSS(h.theme.AccentColour),
		Background: template.CSS(h.theme.BackgroundColour),
		Text:       template.CSS(h.theme.TextColour),
		MaxUpload:  fmt.Sprintf("%.1f MB", float64(h.maxBytes)/(1<<20)),
	}
	if len(h.theme.Logo) > 0 {
		view.LogoURI = dataURI("image/png", h.theme.Logo)
	}
	return view
}

// fill adds the report, its charts and both downloads to the view.
func (h *DashboardHandler) fill(view *dashboardView, report *model.Report) error {
	view.Report = report
	view.Warnings = report.Warnings
	view.Observations = observationsHTML(report.Observations)

	for _, d := range report.Dishes {
		row := rowView{
			Name:         d.Name,
			SellingPrice: money(d.SellingPrice),
			Cost:         fmt.Sprintf("%.2f", d.Cost),
			Margin:       percent(d.Margin),
			Carbon:       fmt.Sprintf("%.2f", d.Carbon),
			Partial:      !d.CostComplete,
		}
		for _, f := range d.Flags {
			row.Flags = append(row.Flags, f.Label())
		}
		if row.Partial {
			view.HasPartial = true
		}
		view.Rows = append(view.Rows, row)
	}

	charts, err := export.RenderCharts(report.Dishes, chartStyle(h.theme))
	if err != nil {
		return err
	}
	for _, c := range charts {
		view.Charts = append(view.Charts, chartView{Title: c.Title, URI: dataURI("image/png", c.PNG)})
	}

	xlsx := &bytes.Buffer{}
	if err := export.WriteExcel(xlsx, report); err != nil {
		return err
	}
	view.ExcelURI = dataURI(xlsxContentType, xlsx.Bytes())

	pdf, err := renderPDF(report, h.theme)
	if err != nil {
		// The Excel download and the page stay useful without the PDF.
		h.logger.Error().Err(err).Str("report_id", report.ID.String()).Msg("failed to build PDF download")
		return nil
	}
	view.PDFURI = dataURI("application/pdf", pdf)
	return nil
}

func (h *DashboardHandler) render(w http.ResponseWriter, status int, view dashboardView) {
	buf := &bytes.Buffer{}
	if err := dashboardTemplate.Execute(buf, view); err != nil {
		h.logger.Error().Err(err).Msg("failed to render dashboard")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// observationsHTML renders the observations as a markdown bullet list.
// Raw HTML in the text is dropped.
func observationsHTML(observations []string) template.HTML {
	var md strings.Builder
	for _, o := range observations {
		md.WriteString("- ")
		md.WriteString(strings.ReplaceAll(o, "\n", " "))
		md.WriteString("\n")
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md.String()), p, renderer))
}

func dataURI(contentType string, data []byte) template.URL {
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func money(v *float64) string {
	if v == nil {
		return export.NotApplicable
	}
	return fmt.Sprintf("%.2f", *v)
}

func percent(v *float64) string {
	if v == nil {
		return export.NotApplicable
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}
