package sheet

import (
	"errors"
	"fmt"
	"io"

	"dish-analyzer/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

// File labels used in sheet errors.
const (
	DishFile  = "dish spreadsheet"
	PriceFile = "price spreadsheet"
)

// DefaultUnit is assumed when the price list has no unit column.
const DefaultUnit = "g"

var (
	dishNameAliases     = []string{"dish name", "dish"}
	sellingPriceAliases = []string{"selling price", "price", "menu price"}
	ingredientAliases   = []string{"ingredient", "ingredient name", "name"}
	unitCostAliases     = []string{"price per g", "unit cost", "cost per unit", "price per unit", "cost per g", "price"}
	unitAliases         = []string{"unit", "unit of measure", "uom"}
	carbonAliases       = []string{"carbon factor", "co2e per g", "co2e per unit", "co2e", "carbon"}
)

var validate = validator.New()

// DishSheet is the parsed dish template.
type DishSheet struct {
	Dishes []model.Dish
	// Lines carry the inline "Cost per g N" value when the row gives one.
	Lines    []model.RecipeLine
	Warnings []string
}

// ReadDishes parses the first sheet of a dish template workbook.
//
// The sheet needs a "Dish Name" and a "Selling Price" column followed by any
// number of "Ingredient N" / "Qty N" column pairs, each optionally with a
// "Cost per g N" column. A blank selling price leaves the price absent. An
// inline cost applies to its own row only.
func ReadDishes(r io.Reader) (*DishSheet, error) {
	header, rows, err := readFirstSheet(r, DishFile)
	if err != nil {
		return nil, err
	}

	cols := newColumns(header)
	nameCol, ok := cols.find(dishNameAliases...)
	if !ok {
		return nil, &model.SheetError{File: DishFile, Column: "Dish Name", Message: "required column is missing"}
	}
	priceCol, ok := cols.find(sellingPriceAliases...)
	if !ok {
		return nil, &model.SheetError{File: DishFile, Column: "Selling Price", Message: "required column is missing"}
	}
	groups := cols.groups()
	if len(groups) == 0 {
		return nil, &model.SheetError{File: DishFile, Column: "Ingredient 1", Message: "no ingredient/quantity column pairs found"}
	}

	out := &DishSheet{}
	seenDish := map[string]bool{}

	for i, row := range rows {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		dish := model.Dish{Name: cell(row, nameCol), Row: rowNum}
		if dish.Name == "" {
			return nil, &model.SheetError{File: DishFile, Row: rowNum, Column: header[nameCol], Message: "dish name is required"}
		}
		if raw := cell(row, priceCol); raw != "" {
			price, err := parseNumber(raw)
			if err != nil {
				return nil, &model.SheetError{File: DishFile, Row: rowNum, Column: header[priceCol], Message: fmt.Sprintf("%q is not a number", raw)}
			}
			dish.SellingPrice = &price
		}
		if err := validateRow(dish, DishFile, rowNum); err != nil {
			return nil, err
		}

		key := model.NameKey(dish.Name)
		if seenDish[key] {
			out.Warnings = append(out.Warnings, fmt.Sprintf("row %d: duplicate dish %q ignored", rowNum, dish.Name))
			continue
		}
		seenDish[key] = true
		out.Dishes = append(out.Dishes, dish)

		for _, g := range groups {
			ingredient := cell(row, g.ingredient)
			rawQty := cell(row, g.quantity)
			if ingredient == "" && rawQty == "" {
				continue
			}
			if ingredient == "" || rawQty == "" {
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("row %d: ingredient %d needs both a name and a quantity; ignored", rowNum, g.index))
				continue
			}

			qty, err := parseNumber(rawQty)
			if err != nil {
				return nil, &model.SheetError{File: DishFile, Row: rowNum, Column: header[g.quantity], Message: fmt.Sprintf("%q is not a number", rawQty)}
			}
			line := model.RecipeLine{Dish: dish.Name, Ingredient: ingredient, Quantity: qty, Row: rowNum}
			if rawCost := cell(row, g.unitCost); rawCost != "" {
				cost, err := parseNumber(rawCost)
				if err != nil {
					return nil, &model.SheetError{File: DishFile, Row: rowNum, Column: header[g.unitCost], Message: fmt.Sprintf("%q is not a number", rawCost)}
				}
				line.UnitCost = &cost
			}
			if err := validateRow(line, DishFile, rowNum); err != nil {
				return nil, err
			}
			out.Lines = append(out.Lines, line)
		}
	}

	if len(out.Dishes) == 0 {
		return nil, &model.SheetError{File: DishFile, Message: "no dishes found"}
	}

	return out, nil
}

// ReadPrices parses the first sheet of an ingredient price list workbook.
// Duplicate ingredient rows are reported as warnings; the last row wins.
func ReadPrices(r io.Reader) ([]model.Ingredient, []string, error) {
	header, rows, err := readFirstSheet(r, PriceFile)
	if err != nil {
		return nil, nil, err
	}

	cols := newColumns(header)
	nameCol, ok := cols.find(ingredientAliases...)
	if !ok {
		return nil, nil, &model.SheetError{File: PriceFile, Column: "Ingredient", Message: "required column is missing"}
	}
	costCol, ok := cols.find(unitCostAliases...)
	if !ok {
		return nil, nil, &model.SheetError{File: PriceFile, Column: "Price per g", Message: "required column is missing"}
	}
	unitCol, _ := cols.find(unitAliases...)
	carbonCol, _ := cols.find(carbonAliases...)

	var (
		ingredients []model.Ingredient
		warnings    []string
	)
	index := map[string]int{}

	for i, row := range rows {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		ing := model.Ingredient{
			Name:   cell(row, nameCol),
			Unit:   cell(row, unitCol),
			Source: model.SourcePriceList,
		}
		if ing.Name == "" {
			return nil, nil, &model.SheetError{File: PriceFile, Row: rowNum, Column: header[nameCol], Message: "ingredient name is required"}
		}
		if ing.Unit == "" {
			ing.Unit = DefaultUnit
		}

		rawCost := cell(row, costCol)
		if rawCost == "" {
			return nil, nil, &model.SheetError{File: PriceFile, Row: rowNum, Column: header[costCol], Message: "unit cost is required"}
		}
		cost, err := parseNumber(rawCost)
		if err != nil {
			return nil, nil, &model.SheetError{File: PriceFile, Row: rowNum, Column: header[costCol], Message: fmt.Sprintf("%q is not a number", rawCost)}
		}
		ing.UnitCost = &cost

		if raw := cell(row, carbonCol); raw != "" {
			factor, err := parseNumber(raw)
			if err != nil {
				return nil, nil, &model.SheetError{File: PriceFile, Row: rowNum, Column: header[carbonCol], Message: fmt.Sprintf("%q is not a number", raw)}
			}
			ing.CarbonFactor = &factor
		}

		if err := validateRow(ing, PriceFile, rowNum); err != nil {
			return nil, nil, err
		}

		if idx, dup := index[ing.Key()]; dup {
			warnings = append(warnings, fmt.Sprintf("row %d: duplicate ingredient %q replaces an earlier row", rowNum, ing.Name))
			ingredients[idx] = ing
			continue
		}
		index[ing.Key()] = len(ingredients)
		ingredients = append(ingredients, ing)
	}

	if len(ingredients) == 0 {
		return nil, nil, &model.SheetError{File: PriceFile, Message: "no ingredients found"}
	}

	return ingredients, warnings, nil
}

// readFirstSheet returns the header row and the data rows of the first sheet.
func readFirstSheet(r io.Reader, file string) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, &model.SheetError{File: file, Message: fmt.Sprintf("not a readable .xlsx workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &model.SheetError{File: file, Message: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, &model.SheetError{File: file, Message: fmt.Sprintf("failed to read sheet %q: %v", sheets[0], err)}
	}
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return nil, nil, &model.SheetError{File: file, Row: 1, Message: "header row is missing"}
	}

	return rows[0], rows[1:], nil
}

// validateRow runs struct validation and reports the first failure as a
// sheet error.
func validateRow(v interface{}, file string, row int) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &model.SheetError{File: file, Row: row, Column: fe.Field(), Message: describe(fe)}
	}
	return &model.SheetError{File: file, Row: row, Message: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must not be negative"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
