package sheet

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	parenthesised = regexp.MustCompile(`\([^)]*\)`)
	groupHeader   = regexp.MustCompile(`^(.*\D) ?(\d+)$`)
)

// normaliseHeader lowercases a header, drops parenthesised units and
// punctuation and collapses whitespace: "Qty 1 (g)" becomes "qty 1".
func normaliseHeader(header string) string {
	h := strings.ReplaceAll(header, "₂", "2")
	h = parenthesised.ReplaceAllString(h, " ")
	h = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, h)
	return strings.Join(strings.Fields(h), " ")
}

// columns maps normalised headers to column indexes.
type columns map[string]int

func newColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		key := normaliseHeader(h)
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

// find returns the index of the first alias present.
func (c columns) find(aliases ...string) (int, bool) {
	for _, alias := range aliases {
		if i, ok := c[alias]; ok {
			return i, true
		}
	}
	return -1, false
}

// group is one "Ingredient N" / "Qty N" / "Cost per g N" column set.
type group struct {
	index      int
	ingredient int
	quantity   int
	unitCost   int
}

// groups collects the numbered ingredient column groups in ascending order.
// A group needs both an ingredient and a quantity column.
func (c columns) groups() []group {
	byIndex := map[int]*group{}
	var order []int

	for key, col := range c {
		m := groupHeader.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		g, ok := byIndex[n]
		if !ok {
			g = &group{index: n, ingredient: -1, quantity: -1, unitCost: -1}
			byIndex[n] = g
			order = append(order, n)
		}
		switch strings.TrimSpace(m[1]) {
		case "ingredient":
			g.ingredient = col
		case "qty", "quantity":
			g.quantity = col
		case "cost per g", "cost per unit", "unit cost", "price per g":
			g.unitCost = col
		}
	}

	sort.Ints(order)
	out := make([]group, 0, len(order))
	for _, n := range order {
		g := byIndex[n]
		if g.ingredient >= 0 && g.quantity >= 0 {
			out = append(out, *g)
		}
	}
	return out
}

// cell returns the trimmed value at index i, or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseNumber parses a numeric cell, tolerating a currency symbol and
// thousands separators.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "€$£")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
