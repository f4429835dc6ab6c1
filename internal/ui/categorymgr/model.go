// Package categorymgr implements the category management view.
package categorymgr

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

// CloseMsg signals the parent to close the category view.
type CloseMsg struct{}

// ChangedMsg signals that categories were modified; the parent should
// refetch. Deleting a category does not touch tasks referencing it;
// those now-dangling references render as "no category".
type ChangedMsg struct{}

type viewMode int

const (
	modeList viewMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	color   string
	confirm bool
}

type savedMsg struct{ err error }
type deletedMsg struct{ err error }

// Model is the Bubble Tea model for category management.
type Model struct {
	mode        viewMode
	client      *api.Client
	keys        *keys.KeyMap
	categories  []model.Category
	selectedIdx int
	editingID   int
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new category manager model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		client: client,
		keys:   k,
		fb:     &formBindings{},
		width:  width, height: height,
	}
}

// SetCategories replaces the listed categories. The parent owns the
// fetch; this view only mutates.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
	if m.selectedIdx >= len(m.categories) && m.selectedIdx > 0 {
		m.selectedIdx = len(m.categories) - 1
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Category saved"
		}
		m.mode = modeList
		return m, func() tea.Msg { return ChangedMsg{} }

	case deletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Category deleted"
		}
		m.mode = modeList
		return m, func() tea.Msg { return ChangedMsg{} }

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.categories) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.categories)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.categories) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.categories) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.isNew = true
		m.editingID = 0
		m.fb.name = ""
		m.fb.color = "#6BCB77"
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if len(m.categories) == 0 {
			return m, nil
		}
		c := m.categories[m.selectedIdx]
		m.isNew = false
		m.editingID = c.ID
		m.fb.name = c.Name
		m.fb.color = c.Color
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.categories) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Category name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Color").
				Placeholder("#6BCB77").
				Value(&m.fb.color),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.categories) {
		name = m.categories[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete category %q?", name)).
				Description("Tasks keep their reference and show as \"no category\".").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
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
		return m, m.saveCategory()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			c := m.categories[m.selectedIdx]
			return m, m.deleteCategory(c.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the category manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No categories yet. Press 'n' to create one."))
	} else {
		for i, c := range m.categories {
			swatch := theme.CategoryStyle(c).Render("■")
			label := fmt.Sprintf("%s %s", swatch, c.Name)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
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

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) saveCategory() tea.Cmd {
	client := m.client
	fb := *m.fb
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		ctx := context.Background()
		if isNew {
			_, err := client.CreateCategory(ctx, api.CategoryCreate{
				Name:  fb.name,
				Color: fb.color,
			})
			return savedMsg{err: err}
		}
		_, err := client.UpdateCategory(ctx, editID, api.CategoryUpdate{
			Name:  &fb.name,
			Color: &fb.color,
		})
		return savedMsg{err: err}
	}
}

func (m Model) deleteCategory(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteCategory(context.Background(), id)
		return deletedMsg{err: err}
	}
}
