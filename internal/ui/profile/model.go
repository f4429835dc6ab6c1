// Package profile implements the account profile view: display name
// and avatar URL editing, plus logout.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/api"
	"taskmaster-tui/internal/keys"
	"taskmaster-tui/internal/model"
	"taskmaster-tui/internal/theme"
)

// CloseMsg signals the parent to close the profile view.
type CloseMsg struct{}

// SavedMsg carries the updated user after a successful save. The
// parent refreshes its cached user (and the avatar cache) from it.
type SavedMsg struct {
	User *model.User
	Err  error
}

// LogoutMsg asks the app to sign out and clear stored credentials.
type LogoutMsg struct{}

type viewMode int

const (
	modeView viewMode = iota
	modeEdit
)

type formBindings struct {
	displayName string
	avatarURL   string
}

// Model is the Bubble Tea model for the profile view.
type Model struct {
	mode      viewMode
	client    *api.Client
	keys      *keys.KeyMap
	user      *model.User
	avatarSet bool
	form      *huh.Form
	fb        *formBindings
	statusMsg string
	width     int
	height    int
}

// New creates a new profile view model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeView,
		client: client,
		keys:   k,
		fb:     &formBindings{},
		width:  width, height: height,
	}
}

// SetUser sets the displayed user.
func (m *Model) SetUser(user *model.User) {
	m.user = user
}

// SetAvatarCached marks whether a local copy of the avatar exists.
func (m *Model) SetAvatarCached(cached bool) {
	m.avatarSet = cached
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		} else {
			m.user = msg.User
			m.statusMsg = "Profile saved"
		}
		m.mode = modeView
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateForm(msg)
		}
		return m.handleViewKey(msg)
	}

	if m.mode == modeEdit {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleViewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Edit):
		if m.user == nil {
			return m, nil
		}
		m.fb.displayName = m.user.DisplayName
		m.fb.avatarURL = m.user.AvatarURL
		m.form = m.buildForm()
		m.mode = modeEdit
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Placeholder(m.user.Username).
				Value(&m.fb.displayName),
			huh.NewInput().
				Title("Avatar URL").
				Placeholder("https://example.com/me.png").
				Value(&m.fb.avatarURL).
				Validate(validateOptionalURL),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveProfile()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeView
		return m, nil
	}
	return m, cmd
}

// View renders the profile view.
func (m Model) View() string {
	if m.mode == modeEdit {
		if m.form == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Profile"))
	b.WriteString("\n\n")

	if m.user == nil {
		b.WriteString(theme.HelpStyle.Render("Loading..."))
	} else {
		labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(14)
		b.WriteString(labelStyle.Render("Username") + m.user.Username + "\n")

		display := m.user.DisplayName
		if display == "" {
			display = theme.HelpStyle.Render("(not set)")
		}
		b.WriteString(labelStyle.Render("Display name") + display + "\n")

		avatar := m.user.AvatarURL
		if avatar == "" {
			avatar = theme.HelpStyle.Render("(none)")
		} else if m.avatarSet {
			avatar += theme.HelpStyle.Render(" (cached locally)")
		}
		b.WriteString(labelStyle.Render("Avatar") + avatar + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"e edit | L log out | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) saveProfile() tea.Cmd {
	client := m.client
	fb := *m.fb
	return func() tea.Msg {
		update := api.ProfileUpdate{
			DisplayName: &fb.displayName,
			AvatarURL:   &fb.avatarURL,
		}
		user, err := client.UpdateProfile(context.Background(), update)
		return SavedMsg{User: user, Err: err}
	}
}

func validateOptionalURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("must be an http(s) URL")
	}
	return nil
}
