package derive

import (
	"testing"
	"time"

	"taskmaster-tui/internal/model"
)

func TestScoreMoodEmptyListIsHappy(t *testing.T) {
	stats, mood := ScoreMood(nil, time.Now())
	if stats.CompletionRate != 1 {
		t.Errorf("CompletionRate = %v, want 1", stats.CompletionRate)
	}
	if mood.Level != MoodHappy {
		t.Errorf("mood = %v, want happy", mood.Level)
	}
}

func TestScoreMoodThresholds(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// No overdue tasks, so the level depends only on the raw rate.
	tests := []struct {
		name      string
		completed int
		total     int
		want      MoodLevel
	}{
		{"all done", 10, 10, MoodHappy},
		{"exactly 80 percent", 8, 10, MoodHappy},
		{"exactly 50 percent", 5, 10, MoodNormal},
		{"exactly 30 percent", 3, 10, MoodAnnoyed},
		{"below 30 percent", 2, 10, MoodAngry},
		{"nothing done", 0, 10, MoodAngry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := make([]model.Task, tt.total)
			for i := range tasks {
				tasks[i] = model.Task{ID: i + 1, IsCompleted: i < tt.completed}
			}
			_, mood := ScoreMood(tasks, now)
			if mood.Level != tt.want {
				t.Errorf("mood = %v, want %v", mood.Level, tt.want)
			}
		})
	}
}

func TestScoreMoodOverduePenalty(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	// 9 of 10 complete = 0.9; one overdue task subtracts 0.15,
	// landing at 0.75, which drops happy to normal.
	tasks := make([]model.Task, 10)
	for i := 0; i < 9; i++ {
		tasks[i] = model.Task{ID: i + 1, IsCompleted: true}
	}
	tasks[9] = model.Task{ID: 10, Deadline: &past}

	stats, mood := ScoreMood(tasks, now)
	if stats.Overdue != 1 {
		t.Fatalf("Overdue = %d, want 1", stats.Overdue)
	}
	if mood.Level != MoodNormal {
		t.Errorf("mood = %v, want normal", mood.Level)
	}
}

func TestScoreMoodPenaltyCap(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	// 16 of 20 complete = 0.8. Four overdue tasks would subtract 0.6
	// uncapped; the cap holds the penalty at 0.3, so adjusted = 0.5.
	tasks := make([]model.Task, 20)
	for i := 0; i < 16; i++ {
		tasks[i] = model.Task{ID: i + 1, IsCompleted: true}
	}
	for i := 16; i < 20; i++ {
		tasks[i] = model.Task{ID: i + 1, Deadline: &past}
	}

	_, mood := ScoreMood(tasks, now)
	if mood.Level != MoodNormal {
		t.Errorf("mood = %v, want normal (penalty capped at 0.3)", mood.Level)
	}
}

func TestScoreMoodCompletedOverdueNotCounted(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	tasks := []model.Task{
		{ID: 1, IsCompleted: true, Deadline: &past},
	}

	stats, _ := ScoreMood(tasks, now)
	if stats.Overdue != 0 {
		t.Errorf("Overdue = %d, want 0 for a completed task", stats.Overdue)
	}
}

func TestScoreMoodDisplayMetadata(t *testing.T) {
	for level, mood := range moodTable {
		if mood.Emoji == "" || mood.Message == "" || mood.Color == "" {
			t.Errorf("mood %v missing display metadata: %+v", level, mood)
		}
	}
	if !moodTable[MoodAngry].Emphasis || !moodTable[MoodAnnoyed].Emphasis {
		t.Error("angry and annoyed moods should carry emphasis")
	}
	if moodTable[MoodHappy].Emphasis || moodTable[MoodNormal].Emphasis {
		t.Error("happy and normal moods should not carry emphasis")
	}
}
