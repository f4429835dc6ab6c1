// Package helpview renders the expanded keybinding reference.
package helpview

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/keys"
	"taskmaster-tui/internal/theme"
)

// CloseMsg signals the parent to close the help view.
type CloseMsg struct{}

// Model is the Bubble Tea model for the help view.
type Model struct {
	help   help.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width
	return Model{
		help:  h,
		keys:  k,
		width: width, height: height,
	}
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Back) || key.Matches(keyMsg, m.keys.Help) {
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

// View renders the full keybinding reference.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	content := titleStyle.Render("Keyboard shortcuts") + "\n\n" + m.help.View(m.keys)
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(content)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}
