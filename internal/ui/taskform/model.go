// Package taskform implements the create/edit task form.
package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/model"
	"taskmaster-tui/internal/theme"
)

// deadlineLayout is the input format for deadlines, interpreted in the
// local timezone.
const deadlineLayout = "2006-01-02 15:04"

// SubmitMsg is dispatched when the form is submitted. TaskID is zero
// for a create.
type SubmitMsg struct {
	TaskID      int
	Title       string
	Description string
	Priority    model.Priority
	Deadline    *time.Time
	CategoryID  *int
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    model.Priority
	deadline    string
	categoryID  int
}

// noCategory is the sentinel select value for tasks without a category.
const noCategory = 0

// Model is the Bubble Tea model for the task form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	editMode   bool
	editID     int
	categories []model.Category
	width      int
	height     int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// SetCategories sets the available categories for the selector.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.fb.title = ""
	m.fb.description = ""
	m.fb.priority = model.PriorityMedium
	m.fb.deadline = ""
	m.fb.categoryID = noCategory
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.priority = task.Priority
	if task.Deadline != nil {
		m.fb.deadline = task.Deadline.Local().Format(deadlineLayout)
	} else {
		m.fb.deadline = ""
	}
	if task.CategoryID != nil {
		m.fb.categoryID = *task.CategoryID
	} else {
		m.fb.categoryID = noCategory
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[model.Priority]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD HH:MM (optional)").
			Value(&m.fb.deadline).
			Validate(validateOptionalDeadline),
		m.categoryField(),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) categoryField() huh.Field {
	opts := []huh.Option[int]{
		huh.NewOption("No category", noCategory),
	}
	for _, c := range m.categories {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return huh.NewSelect[int]().
		Title("Category").
		Options(opts...).
		Value(&m.fb.categoryID)
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SubmitMsg{
		TaskID:      m.editID,
		Title:       m.fb.title,
		Description: m.fb.description,
		Priority:    m.fb.priority,
	}

	if m.fb.deadline != "" {
		if t, err := time.ParseInLocation(deadlineLayout, strings.TrimSpace(m.fb.deadline), time.Local); err == nil {
			msg.Deadline = &t
		}
	}

	if m.fb.categoryID != noCategory {
		id := m.fb.categoryID
		msg.CategoryID = &id
	}

	return func() tea.Msg { return msg }
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

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDeadline(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.ParseInLocation(deadlineLayout, s, time.Local); err != nil {
		return fmt.Errorf("invalid deadline, use YYYY-MM-DD HH:MM")
	}
	return nil
}
