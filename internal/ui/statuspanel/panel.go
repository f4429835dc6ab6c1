// Package statuspanel renders the derived progress widgets shown above
// the task list: the character's mood line, the deadline dialogue, and
// the weekly progress summary. All content is recomputed from the
// current task list and clock on every render.
package statuspanel

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/derive"
	"taskmaster-tui/internal/model"
	"taskmaster-tui/internal/theme"
)

// bucketLabel is the short badge shown next to the dialogue line.
func bucketLabel(b derive.DeadlineBucket) string {
	switch b {
	case derive.BucketOverdue:
		return "⚠ OVERDUE"
	case derive.BucketFiveMinutes:
		return "🔥 5 MIN LEFT"
	case derive.BucketThirtyMinutes:
		return "⏰ 30 MIN LEFT"
	default:
		return ""
	}
}

// Render draws the status panel for the given tasks at the given
// instant, constrained to width columns.
func Render(tasks []model.Task, now time.Time, width int) string {
	var lines []string

	lines = append(lines, renderMood(tasks, now))

	if dialogue := renderDialogue(tasks, now); dialogue != "" {
		lines = append(lines, dialogue)
	}

	lines = append(lines, renderWeekly(tasks, now))

	content := strings.Join(lines, "\n")
	return theme.PanelStyle.Width(width - 2).Render(content)
}

// renderMood draws the mood line: emoji, message, and completion stats.
func renderMood(tasks []model.Task, now time.Time) string {
	stats, mood := derive.ScoreMood(tasks, now)

	message := theme.MoodStyle(mood).Render(mood.Message)
	counts := theme.HelpStyle.Render(fmt.Sprintf(
		" (%d/%d done, %d overdue)",
		stats.Completed, stats.Total, stats.Overdue,
	))

	return mood.Emoji + " " + message + counts
}

// renderDialogue draws the character dialogue for the most urgent
// deadline, or returns "" when no deadline is within range.
func renderDialogue(tasks []model.Task, now time.Time) string {
	bucket, task := derive.ClassifyDeadline(tasks, now)
	if bucket == derive.BucketNone || task == nil {
		return ""
	}

	line := derive.SelectDialogue(bucket, task.ID)
	if line == "" {
		return ""
	}

	badge := theme.BucketStyle(bucket).Render(bucketLabel(bucket))
	title := theme.HelpStyle.Render(task.Title)

	return badge + " " + title + "\n" +
		theme.BucketStyle(bucket).Render("“"+line+"”")
}

// renderWeekly draws the current week's progress bar and counts.
func renderWeekly(tasks []model.Task, now time.Time) string {
	stats := derive.AggregateWeekly(tasks, now)
	if stats.Total == 0 {
		return theme.HelpStyle.Render("No tasks due this week")
	}

	const barWidth = 20
	doneCells := stats.Completed * barWidth / stats.Total
	overdueCells := stats.Overdue * barWidth / stats.Total
	pendingCells := barWidth - doneCells - overdueCells

	bar := lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(strings.Repeat("█", doneCells)) +
		lipgloss.NewStyle().Foreground(theme.ColorRed).Render(strings.Repeat("█", overdueCells)) +
		lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(strings.Repeat("░", pendingCells))

	return fmt.Sprintf(
		"This week %s %d%%  ✓%d  …%d  !%d",
		bar, stats.CompletionRate, stats.Completed, stats.Pending, stats.Overdue,
	)
}
