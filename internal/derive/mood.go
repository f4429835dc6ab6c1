package derive

import (
	"time"

	"taskmaster-tui/internal/model"
)

// MoodLevel is the character's attitude toward the user's progress.
type MoodLevel string

const (
	MoodHappy   MoodLevel = "happy"
	MoodNormal  MoodLevel = "normal"
	MoodAnnoyed MoodLevel = "annoyed"
	MoodAngry   MoodLevel = "angry"
)

// Mood carries the display metadata for a mood level. Color names are
// resolved against the theme by the UI.
type Mood struct {
	Level    MoodLevel
	Emoji    string
	Message  string
	Color    string
	Emphasis bool
}

// ProgressStats summarizes completion state over the full task list.
type ProgressStats struct {
	Total          int
	Completed      int
	Overdue        int
	CompletionRate float64
}

var moodTable = map[MoodLevel]Mood{
	MoodHappy: {
		Level:   MoodHappy,
		Emoji:   "😊",
		Message: "Great progress! Keep it up!",
		Color:   "green",
	},
	MoodNormal: {
		Level:   MoodNormal,
		Emoji:   "😐",
		Message: "Moving along nicely. Stay on it.",
		Color:   "gray",
	},
	MoodAnnoyed: {
		Level:    MoodAnnoyed,
		Emoji:    "😤",
		Message:  "You can do better than this. Pick up the pace!",
		Color:    "orange",
		Emphasis: true,
	},
	MoodAngry: {
		Level:    MoodAngry,
		Emoji:    "😠",
		Message:  "At this rate you won't make it! Get to work, now!",
		Color:    "red",
		Emphasis: true,
	},
}

// ScoreMood computes progress statistics over tasks and maps them to a
// mood. The completion rate is penalized by 0.15 per overdue task,
// capped at 0.3; an empty task list counts as fully done. The adjusted
// rate is deliberately not clamped at zero.
func ScoreMood(tasks []model.Task, now time.Time) (ProgressStats, Mood) {
	stats := ProgressStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			stats.Completed++
		} else if t.IsOverdue(now) {
			stats.Overdue++
		}
	}

	if stats.Total == 0 {
		stats.CompletionRate = 1
	} else {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}

	var penalty float64
	if stats.Overdue > 0 {
		penalty = float64(stats.Overdue) * 0.15
		if penalty > 0.3 {
			penalty = 0.3
		}
	}

	adjusted := stats.CompletionRate - penalty

	var level MoodLevel
	switch {
	case adjusted >= 0.8:
		level = MoodHappy
	case adjusted >= 0.5:
		level = MoodNormal
	case adjusted >= 0.3:
		level = MoodAnnoyed
	default:
		level = MoodAngry
	}

	return stats, moodTable[level]
}
