// Package derive holds the pure functions that turn raw task and
// location state plus the current time into derived view state: the
// most urgent deadline, the character dialogue line, the mood score,
// weekly statistics, and the category-filtered task list. Nothing in
// this package performs I/O; every result is recomputed from its
// inputs on each call.
package derive

import (
	"time"

	"taskmaster-tui/internal/model"
)

// DeadlineBucket classifies how close the most urgent incomplete task
// is to its deadline.
type DeadlineBucket int

const (
	// BucketNone means no incomplete task has a deadline within 30
	// minutes; no dialogue is shown.
	BucketNone DeadlineBucket = iota

	// BucketThirtyMinutes means the selected deadline is more than 5
	// and at most 30 minutes away.
	BucketThirtyMinutes

	// BucketFiveMinutes means the selected deadline is at most 5
	// minutes away.
	BucketFiveMinutes

	// BucketOverdue means the selected deadline has already passed.
	BucketOverdue
)

// String returns the bucket name for status display.
func (b DeadlineBucket) String() string {
	switch b {
	case BucketThirtyMinutes:
		return "within-30-min"
	case BucketFiveMinutes:
		return "within-5-min"
	case BucketOverdue:
		return "overdue"
	default:
		return "none"
	}
}

// ClassifyDeadline scans the incomplete tasks that carry a deadline and
// selects the single most urgent one. Overdue tasks always outrank
// upcoming ones; among overdue tasks the most recently overdue wins
// (least negative difference), among upcoming tasks the soonest wins.
// Ties keep the first-encountered task, so the result is stable with
// respect to input order. Returns (BucketNone, nil) when no candidate
// exists or the selected deadline is more than 30 minutes away.
func ClassifyDeadline(tasks []model.Task, now time.Time) (DeadlineBucket, *model.Task) {
	var (
		selected   *model.Task
		bestDiff   float64
		hasOverdue bool
	)

	for i := range tasks {
		t := &tasks[i]
		if t.IsCompleted || t.Deadline == nil {
			continue
		}

		diff := t.Deadline.Sub(now).Minutes()

		if diff < 0 {
			// Once an overdue task is seen, later upcoming tasks no
			// longer compete for selection.
			if !hasOverdue || diff > bestDiff {
				bestDiff = diff
				selected = t
			}
			hasOverdue = true
			continue
		}

		if !hasOverdue && (selected == nil || diff < bestDiff) {
			bestDiff = diff
			selected = t
		}
	}

	if selected == nil {
		return BucketNone, nil
	}

	switch {
	case bestDiff < 0:
		return BucketOverdue, selected
	case bestDiff <= 5:
		return BucketFiveMinutes, selected
	case bestDiff <= 30:
		return BucketThirtyMinutes, selected
	default:
		return BucketNone, nil
	}
}
