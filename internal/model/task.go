package model

import "time"

// Priority is the symbolic task priority used throughout the client.
// The server speaks numeric priorities (1/2/3); conversion happens at
// the API boundary.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Numeric converts a symbolic priority to its wire representation.
func (p Priority) Numeric() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityHigh:
		return 3
	default:
		return 2
	}
}

// PriorityFromNumeric converts a wire priority to its symbolic form.
// Unknown values (including 2) map to medium; that default is part of
// the API contract, not an error.
func PriorityFromNumeric(n int) Priority {
	switch n {
	case 1:
		return PriorityLow
	case 3:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Task is a single to-do item owned by the authenticated user.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	OwnerID     int        `json:"owner_id"`

	// CategoryID may reference a category that no longer exists; the
	// server does not cascade category deletion onto tasks. Views
	// render such references as "no category".
	CategoryID *int `json:"category_id,omitempty"`
}

// IsOverdue reports whether the task is incomplete with a deadline in
// the past relative to now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && t.Deadline != nil && t.Deadline.Before(now)
}

// Sort keys accepted by the task list endpoint.
const (
	SortByCreatedAt = "created_at"
	SortByDeadline  = "deadline"
	SortByPriority  = "priority"
)

// Sort orders accepted by the task list endpoint.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)
