package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var hexColour = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Theme holds the dashboard and report branding.
type Theme struct {
	Title            string `yaml:"title"`
	Tagline          string `yaml:"tagline"`
	ReportTitle      string `yaml:"report_title"`
	AccentColour     string `yaml:"accent_colour"`
	BackgroundColour string `yaml:"background_colour"`
	TextColour       string `yaml:"text_colour"`
	LogoPath         string `yaml:"logo"`
	ConsultationURL  string `yaml:"consultation_url"`

	// Logo holds the PNG read from LogoPath.
	Logo []byte `yaml:"-"`
}

// DefaultTheme returns the built-in branding.
func DefaultTheme() Theme {
	return Theme{
		Title:            "Clove Dish Analyzer",
		Tagline:          "Forensic Profits in Food & Beverage",
		ReportTitle:      "Clove Dish Analysis Report",
		AccentColour:     "#A9DFBF",
		BackgroundColour: "#111111",
		TextColour:       "#F0F0F0",
	}
}

// LoadTheme reads a YAML theme file over the defaults. An empty path returns
// DefaultTheme. A relative logo path resolves against the theme file's directory.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("failed to read theme file: %w", err)
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return Theme{}, fmt.Errorf("failed to parse theme file %s: %w", path, err)
	}

	if err := theme.Validate(); err != nil {
		return Theme{}, fmt.Errorf("invalid theme file %s: %w", path, err)
	}

	if theme.LogoPath != "" {
		logo := theme.LogoPath
		if !filepath.IsAbs(logo) {
			logo = filepath.Join(filepath.Dir(path), logo)
		}
		theme.Logo, err = os.ReadFile(logo)
		if err != nil {
			return Theme{}, fmt.Errorf("failed to read theme logo: %w", err)
		}
	}

	return theme, nil
}

// Validate checks that the colours are #RRGGBB values and a title is set.
// A blank report title is derived from the title.
func (t *Theme) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("theme title is required")
	}
	if t.ReportTitle == "" {
		t.ReportTitle = t.Title + " Report"
	}

	colours := map[string]string{
		"accent_colour":     t.AccentColour,
		"background_colour": t.BackgroundColour,
		"text_colour":       t.TextColour,
	}
	for name, value := range colours {
		if !hexColour.MatchString(value) {
			return fmt.Errorf("%s must be a #RRGGBB colour: %q", name, value)
		}
	}

	return nil
}
