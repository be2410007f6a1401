package main

import (
	"fmt"
	"strings"

	"dish-analyzer/internal/chart"
	"dish-analyzer/internal/config"
	"dish-analyzer/internal/export"
	"dish-analyzer/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#111111")).
			Background(lipgloss.Color("#A9DFBF")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A9DFBF"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff453a"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffd60a"))

	mutedStyle = lipgloss.NewStyle().Faint(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

type column struct {
	title string
	width int
	align lipgloss.Position
}

var resultColumns = []column{
	{"Dish", 28, lipgloss.Left},
	{"Price €", 9, lipgloss.Right},
	{"Cost €", 9, lipgloss.Right},
	{"Margin", 8, lipgloss.Right},
	{"CO2e kg", 9, lipgloss.Right},
	{"Flags", 22, lipgloss.Left},
}

// renderResults lays the dish results out as a fixed-width table. Costs that
// exclude unresolved ingredients are marked with *.
func renderResults(results []model.DishResult) string {
	var b strings.Builder

	cells := make([]string, len(resultColumns))
	for i, c := range resultColumns {
		cells[i] = headerStyle.Copy().Width(c.width).Align(c.align).Render(c.title)
	}
	b.WriteString(strings.Join(cells, " "))
	b.WriteString("\n")

	incomplete := false
	for _, r := range results {
		cost := fmt.Sprintf("%.2f", r.Cost)
		if !r.CostComplete {
			cost += "*"
			incomplete = true
		}
		values := []string{
			truncate(r.Name, resultColumns[0].width),
			optional(r.SellingPrice, "%.2f", 1),
			cost,
			optional(r.Margin, "%.1f%%", 100),
			fmt.Sprintf("%.2f", r.Carbon),
			flagLabels(r.Flags),
		}
		for i, c := range resultColumns {
			style := lipgloss.NewStyle().Width(c.width).Align(c.align)
			if i == len(resultColumns)-1 && len(r.Flags) > 0 {
				style = flagStyle.Copy().Width(c.width).Align(c.align)
			}
			cells[i] = style.Render(values[i])
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}

	if incomplete {
		b.WriteString(mutedStyle.Render("* cost excludes ingredients missing from the price list"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderReport renders the title, result table, summary, observations and
// warnings of a report.
func renderReport(report *model.Report, title string) string {
	if title == "" {
		title = "Dish Analysis Report"
	}
	s := report.Summary

	parts := []string{
		titleStyle.Render(title),
		mutedStyle.Render(fmt.Sprintf("%s  ·  %s", report.ID, report.GeneratedAt.UTC().Format("2 Jan 2006 15:04 UTC"))),
		"",
		renderResults(report.Dishes),
		sectionStyle.Render("Summary"),
		fmt.Sprintf("%d dishes  ·  total cost €%.2f  ·  average cost €%.2f  ·  average CO2e %.2f kg",
			s.DishCount, s.TotalCost, s.AverageCost, s.AverageCarbon),
	}

	if len(report.Observations) > 0 {
		parts = append(parts, sectionStyle.Render("Key Observations"))
		for _, o := range report.Observations {
			parts = append(parts, "• "+o)
		}
	}
	if len(report.Warnings) > 0 {
		parts = append(parts, sectionStyle.Render("Warnings"))
		for _, w := range report.Warnings {
			parts = append(parts, warningStyle.Render("! "+w))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func optional(v *float64, format string, scale float64) string {
	if v == nil {
		return export.NotApplicable
	}
	return fmt.Sprintf(format, *v*scale)
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

func chartStyle(theme config.Theme) chart.Style {
	style, err := chart.StyleFromHex(theme.AccentColour, theme.BackgroundColour, theme.TextColour)
	if err != nil {
		return chart.DefaultStyle()
	}
	return style
}
