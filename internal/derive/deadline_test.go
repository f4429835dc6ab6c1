package derive

import (
	"testing"
	"time"

	"taskmaster-tui/internal/model"
)

func taskDue(id int, deadline time.Time, completed bool) model.Task {
	return model.Task{
		ID:          id,
		Title:       "task",
		IsCompleted: completed,
		Deadline:    &deadline,
	}
}

func TestClassifyDeadlineBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offset time.Duration
		want   DeadlineBucket
	}{
		{"overdue", -10 * time.Minute, BucketOverdue},
		{"exactly five minutes", 5 * time.Minute, BucketFiveMinutes},
		{"under five minutes", 3 * time.Minute, BucketFiveMinutes},
		{"exactly thirty minutes", 30 * time.Minute, BucketThirtyMinutes},
		{"between five and thirty", 20 * time.Minute, BucketThirtyMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []model.Task{taskDue(1, now.Add(tt.offset), false)}
			bucket, selected := ClassifyDeadline(tasks, now)
			if bucket != tt.want {
				t.Errorf("bucket = %v, want %v", bucket, tt.want)
			}
			if selected == nil || selected.ID != 1 {
				t.Errorf("selected = %v, want task 1", selected)
			}
		})
	}
}

func TestClassifyDeadlineBeyondThirtyMinutes(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tasks := []model.Task{taskDue(1, now.Add(31*time.Minute), false)}

	bucket, selected := ClassifyDeadline(tasks, now)
	if bucket != BucketNone {
		t.Errorf("bucket = %v, want BucketNone", bucket)
	}
	if selected != nil {
		t.Errorf("selected = %v, want nil", selected)
	}
}

func TestClassifyDeadlineOverdueOutranksUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// An upcoming task two minutes away would normally win, but any
	// overdue task takes precedence.
	tasks := []model.Task{
		taskDue(1, now.Add(2*time.Minute), false),
		taskDue(2, now.Add(-90*time.Minute), false),
	}

	bucket, selected := ClassifyDeadline(tasks, now)
	if bucket != BucketOverdue {
		t.Fatalf("bucket = %v, want BucketOverdue", bucket)
	}
	if selected.ID != 2 {
		t.Errorf("selected task %d, want 2", selected.ID)
	}
}

func TestClassifyDeadlineMostRecentlyOverdueWins(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []model.Task{
		taskDue(1, now.Add(-3*time.Hour), false),
		taskDue(2, now.Add(-5*time.Minute), false),
		taskDue(3, now.Add(-1*time.Hour), false),
	}

	_, selected := ClassifyDeadline(tasks, now)
	if selected.ID != 2 {
		t.Errorf("selected task %d, want 2 (least overdue)", selected.ID)
	}
}

func TestClassifyDeadlineSoonestUpcomingWins(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []model.Task{
		taskDue(1, now.Add(25*time.Minute), false),
		taskDue(2, now.Add(4*time.Minute), false),
		taskDue(3, now.Add(12*time.Minute), false),
	}

	bucket, selected := ClassifyDeadline(tasks, now)
	if bucket != BucketFiveMinutes {
		t.Errorf("bucket = %v, want BucketFiveMinutes", bucket)
	}
	if selected.ID != 2 {
		t.Errorf("selected task %d, want 2", selected.ID)
	}
}

func TestClassifyDeadlineIgnoresCompletedAndDeadlineless(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []model.Task{
		taskDue(1, now.Add(-time.Minute), true),
		{ID: 2, Title: "no deadline"},
	}

	bucket, selected := ClassifyDeadline(tasks, now)
	if bucket != BucketNone || selected != nil {
		t.Errorf("got (%v, %v), want (BucketNone, nil)", bucket, selected)
	}
}

func TestClassifyDeadlineEmptyList(t *testing.T) {
	now := time.Now()
	bucket, selected := ClassifyDeadline(nil, now)
	if bucket != BucketNone || selected != nil {
		t.Errorf("got (%v, %v), want (BucketNone, nil)", bucket, selected)
	}
}

func TestClassifyDeadlineStableOnTies(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(10 * time.Minute)

	tasks := []model.Task{
		taskDue(7, deadline, false),
		taskDue(8, deadline, false),
	}

	_, selected := ClassifyDeadline(tasks, now)
	if selected.ID != 7 {
		t.Errorf("selected task %d, want first-encountered 7", selected.ID)
	}
}
