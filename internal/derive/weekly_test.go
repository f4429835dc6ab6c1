package derive

import (
	"testing"
	"time"

	"taskmaster-tui/internal/model"
)

func TestWeekWindowStartsSunday(t *testing.T) {
	// 2026-03-11 is a Wednesday; the window should start on Sunday
	// 2026-03-08 at midnight local time.
	now := time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)
	start, end := WeekWindow(now)

	wantStart := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantStart.AddDate(0, 0, 7)) {
		t.Errorf("end = %v, want %v", end, wantStart.AddDate(0, 0, 7))
	}
}

func TestWeekWindowOnSunday(t *testing.T) {
	now := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	start, _ := WeekWindow(now)

	wantStart := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want same-day midnight %v", start, wantStart)
	}
}

func TestAggregateWeeklyBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	start, end := WeekWindow(now)

	atStart := start
	justBeforeStart := start.Add(-time.Millisecond)
	justBeforeEnd := end.Add(-time.Millisecond)
	atEnd := end

	tasks := []model.Task{
		{ID: 1, Deadline: &atStart, IsCompleted: true},
		{ID: 2, Deadline: &justBeforeStart},
		{ID: 3, Deadline: &justBeforeEnd},
		{ID: 4, Deadline: &atEnd},
	}

	stats := AggregateWeekly(tasks, now)
	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2 (start inclusive, end exclusive)", stats.Total)
	}
	if stats.Completed != 1 {
		t.Errorf("Completed = %d, want 1", stats.Completed)
	}
	if stats.Pending != 1 {
		t.Errorf("Pending = %d, want 1", stats.Pending)
	}
}

func TestAggregateWeeklyCounts(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	done := now.Add(24 * time.Hour)
	overdue := now.Add(-2 * time.Hour)
	pending := now.Add(48 * time.Hour)

	tasks := []model.Task{
		{ID: 1, Deadline: &done, IsCompleted: true},
		{ID: 2, Deadline: &overdue},
		{ID: 3, Deadline: &pending},
		{ID: 4}, // no deadline, excluded
	}

	stats := AggregateWeekly(tasks, now)
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Completed != 1 || stats.Overdue != 1 || stats.Pending != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", stats.Completed, stats.Overdue, stats.Pending)
	}
	if stats.CompletionRate != 33 {
		t.Errorf("CompletionRate = %d, want 33", stats.CompletionRate)
	}
}

func TestAggregateWeeklyRounding(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	due := now.Add(time.Hour)

	// 2 of 3 complete = 66.67, rounds to 67.
	tasks := []model.Task{
		{ID: 1, Deadline: &due, IsCompleted: true},
		{ID: 2, Deadline: &due, IsCompleted: true},
		{ID: 3, Deadline: &due},
	}

	stats := AggregateWeekly(tasks, now)
	if stats.CompletionRate != 67 {
		t.Errorf("CompletionRate = %d, want 67", stats.CompletionRate)
	}
}

func TestAggregateWeeklyEmptyWeek(t *testing.T) {
	stats := AggregateWeekly(nil, time.Now())
	if stats.Total != 0 || stats.CompletionRate != 0 {
		t.Errorf("stats = %+v, want zero values", stats)
	}
}
