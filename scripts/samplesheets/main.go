package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Writes data/menu.xlsx and data/prices.xlsx for trying the dashboard and
// dishctl. The price list prices every menu ingredient except "Saffron", so
// the unresolved warning shows. Curry rice carries its own inline cost and
// the reference catalogue fills in most carbon factors.
func main() {
	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	menu := [][]interface{}{
		{"Dish Name", "Selling Price (€)", "Ingredient 1", "Qty 1 (g)", "Ingredient 2", "Qty 2 (g)", "Ingredient 3", "Qty 3 (g)", "Cost per g 3 (€)"},
		{"Spaghetti Bolognese", 14.5, "Pasta", 120, "Beef Mince", 150, "Tomato Sauce", 100, nil},
		{"Chicken Caesar Salad", 12.0, "Chicken Breast", 140, "Lettuce", 80, "Parmesan", 20, nil},
		{"Mushroom Risotto", 13.9, "Arborio Rice", 110, "Mushrooms", 120, "Saffron", 0.2, nil},
		{"Cheeseburger", 11.5, "Bun", 80, "Beef Mince", 180, "Cheese", 40, nil},
		{"Chickpea Curry", 10.5, "Chickpeas", 160, "Coconut Milk", 120, "Basmati Rice", 100, 0.0035},
		{"Tofu Stir Fry", 11.0, "Tofu", 150, "Broccoli", 100, "Soy Sauce", 15, nil},
		{"Staff Meal", 0, "Pasta", 150, "Tomato Sauce", 80, nil, nil, nil},
	}

	prices := [][]interface{}{
		{"Ingredient", "Price per g (€)", "Unit", "CO2e per g (kg)"},
		{"Pasta", 0.004, "g", nil},
		{"Beef Mince", 0.0135, "g", 0.027},
		{"Tomato Sauce", 0.005, "g", nil},
		{"Chicken Breast", 0.011, "g", nil},
		{"Lettuce", 0.006, "g", nil},
		{"Parmesan", 0.032, "g", nil},
		{"Arborio Rice", 0.0045, "g", nil},
		{"Mushrooms", 0.009, "g", nil},
		{"Bun", 0.006, "g", nil},
		{"Cheese", 0.014, "g", nil},
		{"Chickpeas", 0.003, "g", nil},
		{"Coconut Milk", 0.004, "g", nil},
		{"Basmati Rice", 0.0032, "g", 0.0027},
		{"Tofu", 0.007, "g", nil},
		{"Broccoli", 0.005, "g", nil},
		{"Soy Sauce", 0.008, "g", nil},
	}

	files := map[string][][]interface{}{
		"menu.xlsx":   menu,
		"prices.xlsx": prices,
	}

	for name, rows := range files {
		path := filepath.Join(dataDir, name)
		if err := writeWorkbook(path, rows); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("Created %s (%d rows)\n", path, len(rows)-1)
	}
}

func writeWorkbook(path string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
