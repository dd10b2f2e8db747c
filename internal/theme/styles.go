package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the handful of colors the CLI draws with.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Tertiary  lipgloss.Color
	Error     lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Outline   lipgloss.Color
}

var (
	LightPalette = Palette{
		Primary:   lipgloss.Color("#6366f1"),
		Secondary: lipgloss.Color("#10b981"),
		Tertiary:  lipgloss.Color("#f59e0b"),
		Error:     lipgloss.Color("#ef4444"),
		Text:      lipgloss.Color("#1f2937"),
		Muted:     lipgloss.Color("#6b7280"),
		Outline:   lipgloss.Color("#d1d5db"),
	}

	DarkPalette = Palette{
		Primary:   lipgloss.Color("#a5b4fc"),
		Secondary: lipgloss.Color("#34d399"),
		Tertiary:  lipgloss.Color("#fbbf24"),
		Error:     lipgloss.Color("#f87171"),
		Text:      lipgloss.Color("#f9fafb"),
		Muted:     lipgloss.Color("#d1d5db"),
		Outline:   lipgloss.Color("#6b7280"),
	}
)

type Styles struct {
	Palette Palette
	Title   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	Muted   lipgloss.Style
}

func NewStyles(dark bool) Styles {
	p := LightPalette
	if dark {
		p = DarkPalette
	}
	return Styles{
		Palette: p,
		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			Foreground(p.Outline),
		Success: lipgloss.NewStyle().
			Foreground(p.Secondary),
		Warning: lipgloss.NewStyle().
			Foreground(p.Tertiary).
			Italic(true),
		Danger: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
	}
}
