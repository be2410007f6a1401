// Package export writes analysis reports as Excel workbooks and PDF documents.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"dish-analyzer/internal/model"

	"github.com/xuri/excelize/v2"
)

// Sheet names used by WriteExcel.
const (
	ResultsSheet = "Dish Analysis"
	SummarySheet = "Summary"
)

// NotApplicable marks values that do not apply to a dish.
const NotApplicable = "N/A"

var resultHeader = []string{
	"Dish",
	"Selling Price (€)",
	"Cost (€)",
	"Margin",
	"Profit (€)",
	"CO2e (kg)",
	"CO2e per € Profit (kg)",
	"Cost Complete",
	"Carbon Partial",
	"Flags",
	"Warnings",
}

const (
	colDish = iota
	colPrice
	colCost
	colMargin
	colProfit
	colCarbon
	colCarbonPerProfit
	colCostComplete
	colCarbonPartial
	colFlags
	colWarnings
)

// WriteExcel writes the report as a workbook with a results sheet mirroring
// the dashboard table and a summary sheet. Numbers are stored at full
// precision; only the cell formats round.
func WriteExcel(w io.Writer, report *model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("failed to name results sheet: %w", err)
	}
	if err := writeResults(f, report); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	if err := writeSummary(f, report); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeResults(f *excelize.File, report *model.Report) error {
	header := make([]interface{}, len(resultHeader))
	for i, h := range resultHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}

	for i, d := range report.Dishes {
		row := []interface{}{
			d.Name,
			optional(d.SellingPrice),
			d.Cost,
			optional(d.Margin),
			optional(d.Profit),
			d.Carbon,
			optional(d.CarbonPerProfit),
			yesNo(d.CostComplete),
			yesNo(d.CarbonPartial),
			joinFlags(d.Flags),
			strings.Join(d.Warnings, "; "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %q: %w", d.Name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money := "€#,##0.00"
	euros, err := f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	if err != nil {
		return err
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return err
	}
	kg := "0.000"
	carbon, err := f.NewStyle(&excelize.Style{CustomNumFmt: &kg})
	if err != nil {
		return err
	}

	last := len(report.Dishes) + 1
	lastCol, _ := excelize.ColumnNumberToName(len(resultHeader))
	if err := f.SetCellStyle(ResultsSheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if last > 1 {
		styles := map[int]int{
			colPrice:           euros,
			colCost:            euros,
			colMargin:          percent,
			colProfit:          euros,
			colCarbon:          carbon,
			colCarbonPerProfit: carbon,
		}
		for col, style := range styles {
			name, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetCellStyle(ResultsSheet, name+"2", name+strconv.Itoa(last), style); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(ResultsSheet, "A", "A", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(ResultsSheet, "B", "I", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(ResultsSheet, "J", "K", 40); err != nil {
		return err
	}
	return f.SetPanes(ResultsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummary(f *excelize.File, report *model.Report) error {
	s := report.Summary
	rows := [][]interface{}{
		{"Report ID", report.ID.String()},
		{"Generated", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
		{"Low margin threshold", report.Thresholds.LowMargin},
		{"High CO2e threshold (kg)", report.Thresholds.HighCarbon},
		{"Dishes", s.DishCount},
		{"Total cost (€)", s.TotalCost},
		{"Average cost (€)", s.AverageCost},
		{"Average CO2e (kg)", s.AverageCarbon},
		{"Median margin", optional(s.MedianMargin)},
		{"Total profit (€)", s.TotalProfit},
		{"Low margin dishes", s.LowMarginCount},
		{"High CO2e dishes", s.HighCarbonCount},
		{"Incomplete dishes", s.IncompleteCount},
		{},
		{"Key Observations"},
	}
	for _, o := range report.Observations {
		rows = append(rows, []interface{}{o})
	}
	if len(report.Warnings) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Warnings"})
		for _, w := range report.Warnings {
			rows = append(rows, []interface{}{w})
		}
	}

	for i, row := range rows {
		r := row
		if err := f.SetSheetRow(SummarySheet, "A"+strconv.Itoa(i+1), &r); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 32)
}

// ReadExcel loads the dish results from a workbook written by WriteExcel.
func ReadExcel(r io.Reader) ([]model.DishResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ResultsSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %q sheet: %w", ResultsSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", ResultsSheet)
	}
	for i, h := range resultHeader {
		if i >= len(rows[0]) || rows[0][i] != h {
			return nil, fmt.Errorf("sheet %q: expected column %q at position %d", ResultsSheet, h, i+1)
		}
	}

	results := make([]model.DishResult, 0, len(rows)-1)
	for i, row := range rows[1:] {
		res, err := parseResult(row)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", ResultsSheet, i+2, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func parseResult(row []string) (model.DishResult, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var (
		res model.DishResult
		err error
	)
	res.Name = get(colDish)
	if res.SellingPrice, err = parseOptional(get(colPrice)); err != nil {
		return res, err
	}
	if res.Cost, err = strconv.ParseFloat(get(colCost), 64); err != nil {
		return res, fmt.Errorf("invalid cost: %w", err)
	}
	if res.Margin, err = parseOptional(get(colMargin)); err != nil {
		return res, err
	}
	if res.Profit, err = parseOptional(get(colProfit)); err != nil {
		return res, err
	}
	if res.Carbon, err = strconv.ParseFloat(get(colCarbon), 64); err != nil {
		return res, fmt.Errorf("invalid carbon: %w", err)
	}
	if res.CarbonPerProfit, err = parseOptional(get(colCarbonPerProfit)); err != nil {
		return res, err
	}
	res.CostComplete = get(colCostComplete) == "Yes"
	res.CarbonPartial = get(colCarbonPartial) == "Yes"
	if flags := get(colFlags); flags != "" {
		for _, f := range strings.Split(flags, ", ") {
			res.Flags = append(res.Flags, model.Flag(f))
		}
	}
	if warnings := get(colWarnings); warnings != "" {
		res.Warnings = strings.Split(warnings, "; ")
	}
	return res, nil
}

func optional(v *float64) interface{} {
	if v == nil {
		return NotApplicable
	}
	return *v
}

func parseOptional(s string) (*float64, error) {
	if s == "" || s == NotApplicable {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return &v, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func joinFlags(flags []model.Flag) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
