package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the sheet name used by generated templates.
const TemplateSheet = "Dishes"

// WriteTemplate writes a blank dish template with the given number of
// ingredient column groups.
func WriteTemplate(w io.Writer, groups int) error {
	if groups < 1 {
		groups = 1
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("failed to name template sheet: %w", err)
	}

	header := []interface{}{"Dish Name", "Selling Price (€)"}
	for i := 1; i <= groups; i++ {
		header = append(header,
			fmt.Sprintf("Ingredient %d", i),
			fmt.Sprintf("Qty %d (g)", i),
			fmt.Sprintf("Cost per g %d (€)", i),
		)
	}
	if err := f.SetSheetRow(TemplateSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(TemplateSheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style template header: %w", err)
	}
	if err := f.SetPanes(TemplateSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze template header: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

// WritePriceTemplate writes a blank ingredient price list.
func WritePriceTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"Ingredient", "Price per g (€)", "Unit", "CO2e per g (kg)"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		return fmt.Errorf("failed to write price template header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}
