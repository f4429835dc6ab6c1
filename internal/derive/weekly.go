package derive

import (
	"math"
	"time"

	"taskmaster-tui/internal/model"
)

// WeeklyStats summarizes the tasks whose deadline falls in the current
// calendar week.
type WeeklyStats struct {
	Total     int
	Completed int
	Overdue   int
	Pending   int

	// CompletionRate is a rounded percentage (0-100); 0 when the week
	// has no tasks.
	CompletionRate int
}

// WeekWindow returns the current calendar week as a half-open interval
// [start, end): start is the most recent Sunday at 00:00:00 in now's
// location, end is seven days later.
func WeekWindow(now time.Time) (start, end time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = midnight.AddDate(0, 0, -int(now.Weekday()))
	end = start.AddDate(0, 0, 7)
	return start, end
}

// AggregateWeekly buckets tasks with a deadline inside the current week
// window and counts completed, overdue, and pending items. A deadline
// exactly at the week start is included; the week end is exclusive.
func AggregateWeekly(tasks []model.Task, now time.Time) WeeklyStats {
	start, end := WeekWindow(now)

	var stats WeeklyStats
	for _, t := range tasks {
		if t.Deadline == nil {
			continue
		}
		d := *t.Deadline
		if d.Before(start) || !d.Before(end) {
			continue
		}

		stats.Total++
		switch {
		case t.IsCompleted:
			stats.Completed++
		case d.Before(now):
			stats.Overdue++
		}
	}

	stats.Pending = stats.Total - stats.Completed - stats.Overdue
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}
