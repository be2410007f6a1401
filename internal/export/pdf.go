package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dish-analyzer/internal/model"

	"github.com/go-pdf/fpdf"
)

// Chart is a rendered PNG chart to append to a PDF report.
type Chart struct {
	Title string
	PNG   []byte
}

// PDFOptions brands a PDF report.
type PDFOptions struct {
	Title        string
	Tagline      string
	AccentColour string // #RRGGBB
	Logo         []byte // PNG
	Charts       []Chart
}

// pdf column widths in mm; they add up to the A4 text width.
var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Dish", 70, "L"},
	{"Cost", 25, "R"},
	{"Margin", 25, "R"},
	{"CO2e (kg)", 25, "R"},
	{"Flags", 45, "L"},
}

// WritePDF writes the report as an A4 PDF: title and date, the dish summary
// table, key observations, warnings and one page per chart.
func WritePDF(w io.Writer, report *model.Report, opts PDFOptions) error {
	title := opts.Title
	if title == "" {
		title = "Dish Analysis Report"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(title, true)
	pdf.SetCreator("dish-analyzer", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s  |  page %d", opts.Tagline, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	if len(opts.Logo) > 0 {
		logo := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("logo", logo, bytes.NewReader(opts.Logo))
		pdf.ImageOptions("logo", 170, 10, 30, 0, false, logo, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.UTC().Format("2 January 2006 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	r, g, b := hexRGB(opts.AccentColour)
	pdf.SetFillColor(r, g, b)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, tr(col.title), "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	incomplete := false
	for _, d := range report.Dishes {
		cost := fmt.Sprintf("€%.2f", d.Cost)
		if !d.CostComplete {
			cost += "*"
			incomplete = true
		}
		cells := []string{
			truncate(d.Name, 40),
			cost,
			formatMargin(d.Margin),
			fmt.Sprintf("%.2f", d.Carbon),
			flagLabels(d.Flags),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if incomplete {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, "* cost excludes ingredients missing from the price list", "", 1, "L", false, 0, "")
	}

	section(pdf, tr, "Key Observations", report.Observations)
	section(pdf, tr, "Warnings", report.Warnings)

	for i, c := range opts.Charts {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(c.Title), "", 1, "L", false, 0, "")

		name := "chart" + strconv.Itoa(i)
		img := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, img, bytes.NewReader(c.PNG))
		pdf.ImageOptions(name, 10, pdf.GetY()+2, 190, 0, false, img, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, heading string, lines []string) {
	if len(lines) == 0 {
		return
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		pdf.MultiCell(0, 6, tr("- "+line), "", "L", false)
	}
}

func formatMargin(m *float64) string {
	if m == nil {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", *m*100)
}

func flagLabels(flags []model.Flag) string {
	labels := make([]string, len(flags))
	for i, f := range flags {
		labels[i] = f.Label()
	}
	return strings.Join(labels, ", ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// hexRGB parses #RRGGBB, falling back to light grey.
func hexRGB(h string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(h, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(h, "#")) != 6 {
		return 220, 220, 220
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
