package ui

import "github.com/charmbracelet/lipgloss"

// Theme groups the colors the renderers use.
type Theme struct {
	Name      string
	Accent    lipgloss.Color // focused borders, selected channel
	Author    lipgloss.Color // message author names
	Text      lipgloss.Color
	Dim       lipgloss.Color // timestamps, tombstones, pending entries
	System    lipgloss.Color // system messages, section headings
	Error     lipgloss.Color
	Highlight lipgloss.Color // reactions the local user is part of
}

var themes = []Theme{
	{
		Name:      "Dusk",
		Accent:    lipgloss.Color("#38bdf8"),
		Author:    lipgloss.Color("#c084fc"),
		Text:      lipgloss.Color("#e2e8f0"),
		Dim:       lipgloss.Color("#64748b"),
		System:    lipgloss.Color("#94a3b8"),
		Error:     lipgloss.Color("#f87171"),
		Highlight: lipgloss.Color("#fbbf24"),
	},
	{
		Name:      "Ember",
		Accent:    lipgloss.Color("#fb923c"),
		Author:    lipgloss.Color("#f472b6"),
		Text:      lipgloss.Color("#fde68a"),
		Dim:       lipgloss.Color("#78716c"),
		System:    lipgloss.Color("#a8a29e"),
		Error:     lipgloss.Color("#ef4444"),
		Highlight: lipgloss.Color("#facc15"),
	},
	{
		Name:      "Paper",
		Accent:    lipgloss.Color("#2563eb"),
		Author:    lipgloss.Color("#7c3aed"),
		Text:      lipgloss.Color("#1f2937"),
		Dim:       lipgloss.Color("#9ca3af"),
		System:    lipgloss.Color("#6b7280"),
		Error:     lipgloss.Color("#dc2626"),
		Highlight: lipgloss.Color("#d97706"),
	},
}

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name of the theme after the given one, cycling.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}
