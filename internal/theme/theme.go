package theme

import (
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/derive"
	"taskmaster-tui/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps bordered panel content such as the status panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders inline error messages local to a view.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// DimmedStyle de-emphasizes completed items.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// OverdueStyle flags past-deadline tasks in the list.
var OverdueStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// DeadlineStyle renders deadline timestamps in list rows.
var DeadlineStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// PriorityStyle returns a color-coded style for the given symbolic priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityHigh:
		return base.Foreground(ColorRed)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// namedColor resolves the color names carried by mood descriptors.
func namedColor(name string) lipgloss.AdaptiveColor {
	switch name {
	case "green":
		return ColorGreen
	case "orange":
		return ColorOrange
	case "red":
		return ColorRed
	case "yellow":
		return ColorYellow
	default:
		return ColorGray
	}
}

// MoodStyle returns the style for a mood descriptor, honoring its
// color and emphasis metadata.
func MoodStyle(m derive.Mood) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(namedColor(m.Color))
	if m.Emphasis {
		style = style.Bold(true)
	}
	return style
}

// BucketStyle returns the style for a deadline dialogue bucket label.
func BucketStyle(b derive.DeadlineBucket) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch b {
	case derive.BucketOverdue:
		return base.Foreground(ColorRed)
	case derive.BucketFiveMinutes:
		return base.Foreground(ColorOrange)
	case derive.BucketThirtyMinutes:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// CategoryStyle renders a category badge in its stored color. The
// color value is used verbatim; lipgloss ignores values it cannot
// parse, which matches the server's no-validation contract.
func CategoryStyle(c model.Category) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(c.Color))
}
