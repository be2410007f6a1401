// Package chart renders dish analysis charts as PNG images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"

	"dish-analyzer/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Kind names a chart.
type Kind string

const (
	KindMargin          Kind = "margin"
	KindProfitShare     Kind = "profit-share"
	KindCarbon          Kind = "carbon"
	KindCostCarbon      Kind = "cost-carbon"
	KindProfit          Kind = "profit"
	KindCarbonPerProfit Kind = "carbon-per-profit"
)

var (
	// ErrNoData is returned when no dish has a value for the chart.
	ErrNoData = errors.New("chart: no plottable data")
	// ErrUnknownKind is returned for a kind not listed by Kinds.
	ErrUnknownKind = errors.New("chart: unknown kind")
)

var titles = map[Kind]string{
	KindMargin:          "Margin by Dish (%)",
	KindProfitShare:     "Share of Total Profit (%)",
	KindCarbon:          "CO2e by Dish (kg)",
	KindCostCarbon:      "Cost vs CO2e",
	KindProfit:          "Profit per Dish (€)",
	KindCarbonPerProfit: "CO2e per € Profit (kg)",
}

// Kinds returns every chart kind in dashboard order.
func Kinds() []Kind {
	return []Kind{KindMargin, KindProfitShare, KindCarbon, KindCostCarbon, KindProfit, KindCarbonPerProfit}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := titles[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Title returns the chart heading.
func (k Kind) Title() string {
	return titles[k]
}

// Style holds the chart colours.
type Style struct {
	Accent     color.Color
	Background color.Color
	Text       color.Color
}

// DefaultStyle matches the default dashboard theme.
func DefaultStyle() Style {
	s, _ := StyleFromHex("#A9DFBF", "#111111", "#F0F0F0")
	return s
}

// StyleFromHex builds a Style from #RRGGBB colours.
func StyleFromHex(accent, background, text string) (Style, error) {
	var (
		s   Style
		err error
	)
	if s.Accent, err = parseHex(accent); err != nil {
		return Style{}, err
	}
	if s.Background, err = parseHex(background); err != nil {
		return Style{}, err
	}
	if s.Text, err = parseHex(text); err != nil {
		return Style{}, err
	}
	return s, nil
}

func parseHex(h string) (color.Color, error) {
	h = strings.TrimPrefix(h, "#")
	if len(h) != 6 {
		return nil, fmt.Errorf("invalid colour %q", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", h, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Render draws the chart of the given kind as a PNG.
func Render(w io.Writer, kind Kind, dishes []model.DishResult, style Style) error {
	var (
		p   *plot.Plot
		n   int
		err error
	)

	switch kind {
	case KindMargin:
		p, n, err = barChart(dishes, style, func(r model.DishResult) (float64, bool) {
			if r.Margin == nil {
				return 0, false
			}
			return *r.Margin * 100, true
		})
	case KindProfitShare:
		p, n, err = profitShare(dishes, style)
	case KindCarbon:
		p, n, err = barChart(dishes, style, func(r model.DishResult) (float64, bool) {
			return r.Carbon, true
		})
	case KindCostCarbon:
		p, n, err = costCarbon(dishes, style)
	case KindProfit:
		p, n, err = barChart(dishes, style, func(r model.DishResult) (float64, bool) {
			if r.Profit == nil {
				return 0, false
			}
			return *r.Profit, true
		})
	case KindCarbonPerProfit:
		p, n, err = barChart(dishes, style, func(r model.DishResult) (float64, bool) {
			if r.CarbonPerProfit == nil {
				return 0, false
			}
			return *r.CarbonPerProfit, true
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return err
	}

	p.Title.Text = kind.Title()

	height := vg.Length(n)*vg.Points(22) + 1.5*vg.Inch
	if height < 3.5*vg.Inch {
		height = 3.5 * vg.Inch
	}
	wt, err := p.WriterTo(8*vg.Inch, height, "png")
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", kind, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s chart: %w", kind, err)
	}
	return nil
}

type point struct {
	name  string
	value float64
}

// barChart plots a horizontal bar per dish that has a value, largest on top.
func barChart(dishes []model.DishResult, style Style, value func(model.DishResult) (float64, bool)) (*plot.Plot, int, error) {
	var points []point
	for _, d := range dishes {
		if v, ok := value(d); ok {
			points = append(points, point{name: d.Name, value: v})
		}
	}
	return bars(points, style)
}

func bars(points []point, style Style) (*plot.Plot, int, error) {
	if len(points) == 0 {
		return nil, 0, ErrNoData
	}

	// NominalY puts the first label at the bottom.
	sort.SliceStable(points, func(i, j int) bool { return points[i].value < points[j].value })

	values := make(plotter.Values, len(points))
	names := make([]string, len(points))
	for i, pt := range points {
		values[i] = pt.value
		names[i] = pt.name
	}

	p := newPlot(style)
	b, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build bar chart: %w", err)
	}
	b.Horizontal = true
	b.Color = style.Accent
	b.LineStyle.Width = 0

	p.Add(b)
	p.NominalY(names...)

	return p, len(points), nil
}

// profitShare plots each profitable dish's share of the total profit.
func profitShare(dishes []model.DishResult, style Style) (*plot.Plot, int, error) {
	var (
		points []point
		total  float64
	)
	for _, d := range dishes {
		if d.Profit != nil && *d.Profit > 0 {
			points = append(points, point{name: d.Name, value: *d.Profit})
			total += *d.Profit
		}
	}
	for i := range points {
		points[i].value = points[i].value / total * 100
	}
	return bars(points, style)
}

// costCarbon scatters cost against carbon with dashed lines at the averages.
func costCarbon(dishes []model.DishResult, style Style) (*plot.Plot, int, error) {
	if len(dishes) == 0 {
		return nil, 0, ErrNoData
	}

	xys := make(plotter.XYs, len(dishes))
	labels := make([]string, len(dishes))
	var sumX, sumY, maxX, maxY float64
	for i, d := range dishes {
		xys[i].X = d.Cost
		xys[i].Y = d.Carbon
		labels[i] = d.Name
		sumX += d.Cost
		sumY += d.Carbon
		if d.Cost > maxX {
			maxX = d.Cost
		}
		if d.Carbon > maxY {
			maxY = d.Carbon
		}
	}
	avgX := sumX / float64(len(dishes))
	avgY := sumY / float64(len(dishes))
	if maxX == 0 {
		maxX = 1
	}
	if maxY == 0 {
		maxY = 1
	}

	p := newPlot(style)
	p.X.Label.Text = "Cost (€)"
	p.Y.Label.Text = "CO2e (kg)"

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = style.Accent
	scatter.GlyphStyle.Radius = vg.Points(4)

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build labels: %w", err)
	}
	for i := range names.TextStyle {
		names.TextStyle[i].Color = style.Text
	}
	names.Offset = vg.Point{X: vg.Points(6)}

	vertical, err := crossHair(plotter.XYs{{X: avgX, Y: 0}, {X: avgX, Y: maxY * 1.1}}, style)
	if err != nil {
		return nil, 0, err
	}
	horizontal, err := crossHair(plotter.XYs{{X: 0, Y: avgY}, {X: maxX * 1.1, Y: avgY}}, style)
	if err != nil {
		return nil, 0, err
	}

	p.Add(vertical, horizontal, scatter, names)
	return p, len(dishes), nil
}

func crossHair(xys plotter.XYs, style Style) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build average line: %w", err)
	}
	l.LineStyle.Color = style.Text
	l.LineStyle.Width = vg.Points(0.75)
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	return l, nil
}

func newPlot(style Style) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = style.Background
	p.Title.TextStyle.Color = style.Text
	p.Title.Padding = vg.Points(8)
	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.LineStyle.Color = style.Text
		axis.Label.TextStyle.Color = style.Text
		axis.Tick.LineStyle.Color = style.Text
		axis.Tick.Label.Color = style.Text
	}
	p.Add(plotter.NewGrid())
	return p
}
