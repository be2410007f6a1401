package export

import (
	"bytes"
	"errors"
	"fmt"

	"dish-analyzer/internal/chart"
	"dish-analyzer/internal/model"
)

// RenderCharts renders every chart kind that has data for the dishes, in
// dashboard order.
func RenderCharts(dishes []model.DishResult, style chart.Style) ([]Chart, error) {
	var charts []Chart
	for _, kind := range chart.Kinds() {
		buf := &bytes.Buffer{}
		err := chart.Render(buf, kind, dishes, style)
		if errors.Is(err, chart.ErrNoData) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to render %s chart: %w", kind, err)
		}
		charts = append(charts, Chart{Title: kind.Title(), PNG: buf.Bytes()})
	}
	return charts, nil
}
