package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"taskmaster-tui/internal/model"
)

// taskPayload is the wire form of a task in requests and responses.
// Priority travels as a number (1/2/3) and is translated to the
// symbolic form at this boundary.
type taskPayload struct {
	ID          int        `json:"id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	OwnerID     int        `json:"owner_id,omitempty"`
	CategoryID  *int       `json:"category_id,omitempty"`
}

func (p taskPayload) toTask() model.Task {
	task := model.Task{
		ID:         p.ID,
		Title:      p.Title,
		Priority:   model.PriorityMedium,
		Deadline:   p.Deadline,
		CreatedAt:  p.CreatedAt,
		OwnerID:    p.OwnerID,
		CategoryID: p.CategoryID,
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.IsCompleted != nil {
		task.IsCompleted = *p.IsCompleted
	}
	if p.Priority != nil {
		task.Priority = model.PriorityFromNumeric(*p.Priority)
	}
	return task
}

// TaskCreate holds the fields for creating a task.
type TaskCreate struct {
	Title       string
	Description string
	Priority    model.Priority
	Deadline    *time.Time
	CategoryID  *int
}

// TaskUpdate holds the optional fields for updating a task. Nil fields
// are omitted from the request and left unchanged server-side.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	Deadline    *time.Time
	IsCompleted *bool
	CategoryID  *int
}

// ListTasks fetches the user's tasks, optionally sorted server-side.
// sortBy is one of created_at/deadline/priority; sortOrder is asc/desc.
// Empty values omit the corresponding query parameter.
func (c *Client) ListTasks(ctx context.Context, sortBy, sortOrder string) ([]model.Task, error) {
	endpoint := "/api/v1/tasks/"
	params := url.Values{}
	if sortBy != "" {
		params.Set("sort_by", sortBy)
	}
	if sortOrder != "" {
		params.Set("sort_order", sortOrder)
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var payloads []taskPayload
	if err := c.get(ctx, endpoint, &payloads); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, len(payloads))
	for i, p := range payloads {
		tasks[i] = p.toTask()
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, create TaskCreate) (*model.Task, error) {
	priority := create.Priority.Numeric()
	body := taskPayload{
		Title:      create.Title,
		Priority:   &priority,
		Deadline:   create.Deadline,
		CategoryID: create.CategoryID,
	}
	if create.Description != "" {
		body.Description = &create.Description
	}

	var resp taskPayload
	if err := c.post(ctx, "/api/v1/tasks/", body, &resp); err != nil {
		return nil, err
	}
	task := resp.toTask()
	return &task, nil
}

// UpdateTask updates an existing task.
func (c *Client) UpdateTask(ctx context.Context, taskID int, update TaskUpdate) (*model.Task, error) {
	body := taskPayload{
		Description: update.Description,
		IsCompleted: update.IsCompleted,
		Deadline:    update.Deadline,
		CategoryID:  update.CategoryID,
	}
	if update.Title != nil {
		body.Title = *update.Title
	}
	if update.Priority != nil {
		priority := update.Priority.Numeric()
		body.Priority = &priority
	}

	var resp taskPayload
	if err := c.put(ctx, fmt.Sprintf("/api/v1/tasks/%d", taskID), body, &resp); err != nil {
		return nil, err
	}
	task := resp.toTask()
	return &task, nil
}

// ToggleTask sets the completion flag of a task.
func (c *Client) ToggleTask(ctx context.Context, taskID int, completed bool) (*model.Task, error) {
	return c.UpdateTask(ctx, taskID, TaskUpdate{IsCompleted: &completed})
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/tasks/%d", taskID))
}
