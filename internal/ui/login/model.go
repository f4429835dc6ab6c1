// Package login implements the sign-in / sign-up view.
package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/theme"
)

// SubmitMsg is dispatched when the user submits the login form.
type SubmitMsg struct {
	Username string
	Password string
	Remember bool
}

// RegisterMsg is dispatched when the user submits the sign-up form.
type RegisterMsg struct {
	Username string
	Password string
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	password string
	confirm  string
	remember bool
}

// Model is the Bubble Tea model for the login/register view.
type Model struct {
	form         *huh.Form
	fb           *formBindings
	registerMode bool
	errMsg       string
	width        int
	height       int
}

// New creates the login view, pre-filling remembered credentials when
// present.
func New(rememberedUser, rememberedPass string, width, height int) Model {
	m := Model{
		fb: &formBindings{
			username: rememberedUser,
			password: rememberedPass,
			remember: rememberedUser != "",
		},
		width:  width,
		height: height,
	}
	m.form = m.buildLoginForm()
	return m
}

// Init starts the active form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetError shows an inline error (failed login, network failure). The
// view stays interactive so the user can retry.
func (m *Model) SetError(msg string) {
	m.errMsg = msg
	// Rebuild so a failed submit can be edited again.
	if m.registerMode {
		m.form = m.buildRegisterForm()
	} else {
		m.form = m.buildLoginForm()
	}
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+r" {
		// Switch between sign-in and sign-up.
		m.registerMode = !m.registerMode
		m.errMsg = ""
		if m.registerMode {
			m.form = m.buildRegisterForm()
		} else {
			m.form = m.buildLoginForm()
		}
		return m, m.form.Init()
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}

	return m, cmd
}

// View renders the login view.
func (m Model) View() string {
	titleText := "Sign in to TaskMaster"
	hint := "ctrl+r: create an account instead"
	if m.registerMode {
		titleText = "Create a TaskMaster account"
		hint = "ctrl+r: back to sign in"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(titleText))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.form.View())
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(hint))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
			huh.NewConfirm().
				Title("Remember me").
				Value(&m.fb.remember),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(func(s string) error {
					if s != m.fb.password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	if m.registerMode {
		return func() tea.Msg {
			return RegisterMsg{Username: fb.username, Password: fb.password}
		}
	}
	return func() tea.Msg {
		return SubmitMsg{
			Username: fb.username,
			Password: fb.password,
			Remember: fb.remember,
		}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
