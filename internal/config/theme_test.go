package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTheme_Default(t *testing.T) {
	theme, err := LoadTheme("")

	require.NoError(t, err)
	assert.Equal(t, "Clove Dish Analyzer", theme.Title)
	assert.Equal(t, "#A9DFBF", theme.AccentColour)
	assert.Empty(t, theme.Logo)
}

func TestLoadTheme_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "logo.png", "\x89PNG fake")
	path := writeFile(t, dir, "theme.yaml", `
title: Bistro Numbers
accent_colour: "#FF8800"
logo: logo.png
consultation_url: https://example.com/book
`)

	theme, err := LoadTheme(path)

	require.NoError(t, err)
	assert.Equal(t, "Bistro Numbers", theme.Title)
	assert.Equal(t, "#FF8800", theme.AccentColour)
	assert.Equal(t, "#111111", theme.BackgroundColour, "unset keys keep their defaults")
	assert.Equal(t, "Forensic Profits in Food & Beverage", theme.Tagline)
	assert.Equal(t, "https://example.com/book", theme.ConsultationURL)
	assert.Equal(t, []byte("\x89PNG fake"), theme.Logo)
}

func TestLoadTheme_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		errorMsg string
	}{
		{
			name:     "Malformed YAML",
			content:  "title: [unclosed",
			errorMsg: "failed to parse theme file",
		},
		{
			name:     "Bad colour",
			content:  "text_colour: white",
			errorMsg: "text_colour must be a #RRGGBB colour",
		},
		{
			name:     "Empty title",
			content:  `title: ""`,
			errorMsg: "theme title is required",
		},
		{
			name:     "Missing logo",
			content:  "logo: missing.png",
			errorMsg: "failed to read theme logo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "theme.yaml", tt.content)

			_, err := LoadTheme(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
