package derive

import "taskmaster-tui/internal/model"

// FilterByCategory returns the tasks matching the active category
// filter. A nil filter is the identity. With a filter active, only
// tasks whose category id matches exactly are kept; tasks without a
// category are excluded.
func FilterByCategory(tasks []model.Task, categoryID *int) []model.Task {
	if categoryID == nil {
		return tasks
	}

	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CategoryID != nil && *t.CategoryID == *categoryID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
