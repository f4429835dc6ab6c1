package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/theme"
)

// Layout manages the terminal frame: a one-line header, the content
// area, and a one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content
// area, accounting for the header and status bar lines.
func (l Layout) ContentHeight() int {
	return l.Height - 2
}

// RenderHeader renders the top header bar with the app title on the
// left and the signed-in user (or sync state) on the right.
func (l Layout) RenderHeader(title, right string) string {
	return l.renderBar(theme.HeaderStyle, title, right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints or
// an inline error message.
func (l Layout) RenderStatusBar(hints string) string {
	return l.renderBar(theme.StatusBarStyle, hints, "")
}

// renderBar renders a full-width bar with left- and right-aligned
// segments padded by the bar's background.
func (l Layout) renderBar(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Render(right)
	}

	gap := l.Width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}

// RenderFrame composes the full terminal view.
func (l Layout) RenderFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
