// Package tasklist implements the main task list view: the status
// panel (mood, dialogue, weekly progress), the sortable task list, and
// the nearest-location category filter.
package tasklist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/derive"
	"taskmaster-tui/internal/keys"
	"taskmaster-tui/internal/model"
	"taskmaster-tui/internal/theme"
	"taskmaster-tui/internal/ui/statuspanel"
)

// NewTaskMsg asks the app to open the create-task form.
type NewTaskMsg struct{}

// EditTaskMsg asks the app to open the edit form for a task.
type EditTaskMsg struct {
	Task model.Task
}

// ToggleTaskMsg asks the app to flip a task's completion flag.
type ToggleTaskMsg struct {
	TaskID    int
	Completed bool
}

// DeleteTaskMsg asks the app to delete a task.
type DeleteTaskMsg struct {
	TaskID int
}

// SortChangedMsg asks the app to refetch tasks with new sort parameters.
type SortChangedMsg struct {
	SortBy    string
	SortOrder string
}

// LocateMsg asks the app to run a nearest-location lookup and apply
// the resulting category filter.
type LocateMsg struct{}

// ClearFilterMsg asks the app to drop the active category filter.
type ClearFilterMsg struct{}

// sortMode pairs a sort key with its natural order.
type sortMode struct {
	by    string
	order string
}

// sortModes are cycled by Tab. Deadlines sort ascending (soonest
// first); creation time and priority descending.
var sortModes = []sortMode{
	{model.SortByCreatedAt, model.SortDesc},
	{model.SortByDeadline, model.SortAsc},
	{model.SortByPriority, model.SortDesc},
}

// Model is the task list view.
type Model struct {
	list       list.Model
	keys       *keys.KeyMap
	tasks      []model.Task
	categories map[int]model.Category
	sortIndex  int

	// filterCategoryID is the active location-derived category filter.
	filterCategoryID *int
	filterLabel      string

	errMsg string
	width  int
	height int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:       l,
		keys:       k,
		categories: make(map[int]model.Category),
		width:      width,
		height:     height,
	}
}

// SetTasks replaces the task collection and re-derives the visible rows.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	m.tasks = tasks
	return m.rebuild()
}

// SetCategories replaces the category lookup used for row badges.
func (m *Model) SetCategories(categories []model.Category) tea.Cmd {
	m.categories = make(map[int]model.Category, len(categories))
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m.rebuild()
}

// SetFilter applies a category filter with a display label (the
// matched location's name). A nil id clears the filter.
func (m *Model) SetFilter(categoryID *int, label string) tea.Cmd {
	m.filterCategoryID = categoryID
	m.filterLabel = label
	return m.rebuild()
}

// SetError shows an inline error above the list.
func (m *Model) SetError(msg string) {
	m.errMsg = msg
}

// SortBy returns the active sort parameters.
func (m Model) SortBy() (string, string) {
	mode := sortModes[m.sortIndex]
	return mode.by, mode.order
}

// rebuild recomputes the visible rows from the current tasks, filter,
// and category lookup.
func (m *Model) rebuild() tea.Cmd {
	visible := derive.FilterByCategory(m.tasks, m.filterCategoryID)

	items := make([]list.Item, len(visible))
	for i, task := range visible {
		item := TaskItem{Task: task}
		if task.CategoryID != nil {
			if c, ok := m.categories[*task.CategoryID]; ok {
				item.Category = &c
			}
		}
		items[i] = item
	}
	return m.list.SetItems(items)
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(keyMsg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTaskMsg{} }

	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTaskMsg{Task: item.Task} }

	case key.Matches(msg, m.keys.Toggle):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return ToggleTaskMsg{
				TaskID:    item.Task.ID,
				Completed: !item.Task.IsCompleted,
			}
		}

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return DeleteTaskMsg{TaskID: item.Task.ID} }

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		mode := sortModes[m.sortIndex]
		return m, func() tea.Msg {
			return SortChangedMsg{SortBy: mode.by, SortOrder: mode.order}
		}

	case key.Matches(msg, m.keys.LocateFilter):
		return m, func() tea.Msg { return LocateMsg{} }

	case key.Matches(msg, m.keys.ClearFilter):
		return m, func() tea.Msg { return ClearFilterMsg{} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the status panel, any filter banner, and the list.
func (m Model) View() string {
	panel := statuspanel.Render(m.tasks, time.Now(), m.width)

	var parts []string
	parts = append(parts, panel)

	if m.errMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMsg))
	}

	if m.filterCategoryID != nil {
		banner := theme.HelpStyle.Render(
			"Filtered by location: " + m.filterLabel + "  (G to clear)",
		)
		parts = append(parts, banner)
	}

	if len(m.list.Items()) == 0 {
		parts = append(parts, m.renderEmptyState())
	} else {
		parts = append(parts, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.ColorGray).
		Padding(2, 0)

	if m.filterCategoryID != nil {
		return style.Render("No tasks in this category.\nPress G to clear the location filter.")
	}
	return style.Render("No tasks yet.\nPress n to create one.")
}

// SetSize updates the view dimensions. The status panel takes a fixed
// slice of the height; the list gets the rest.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	const panelHeight = 7
	listHeight := height - panelHeight
	if listHeight < 4 {
		listHeight = 4
	}
	m.list.SetSize(width, listHeight)
}
