package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"taskmaster-tui/internal/model"
	"taskmaster-tui/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task

	// Category is resolved from the task's category id, or nil for
	// tasks without one (including dangling references).
	Category *model.Category
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	task := ti.Task
	now := time.Now()

	var prefix string
	if task.IsCompleted {
		prefix = "✓"
	} else {
		prefix = "○"
	}

	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	// Tasks referencing a deleted category fall back to "no category".
	categoryBadge := theme.HelpStyle.Render("no category")
	if ti.Category != nil {
		categoryBadge = theme.CategoryStyle(*ti.Category).Render(ti.Category.Name)
	}

	deadlineStr := ""
	if task.Deadline != nil {
		deadlineStr = theme.DeadlineStyle.Render(" " + formatDeadline(*task.Deadline, now))
	}

	overdueStr := ""
	if task.IsOverdue(now) {
		overdueStr = theme.OverdueStyle.Render(" OVERDUE")
	}

	line := fmt.Sprintf(
		"%s %s %s [%s]%s%s",
		prefix, priBadge, task.Title, categoryBadge, deadlineStr, overdueStr,
	)

	if task.IsCompleted {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// formatDeadline renders a deadline compactly, relative when close.
func formatDeadline(deadline, now time.Time) string {
	diff := deadline.Sub(now)
	switch {
	case diff < 0:
		return deadline.Format("Jan 02 15:04")
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins <= 1 {
			return "in 1m"
		}
		return fmt.Sprintf("in %dm", mins)
	case diff < 24*time.Hour:
		return fmt.Sprintf("in %dh", int(diff.Hours()))
	default:
		return deadline.Format("Jan 02 15:04")
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p model.Priority) string {
	return strings.ToUpper(string(p))
}
