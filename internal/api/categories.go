package api

import (
	"context"
	"fmt"

	"taskmaster-tui/internal/model"
)

// CategoryCreate holds the fields for creating a category.
type CategoryCreate struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CategoryUpdate holds the optional fields for updating a category.
type CategoryUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ListCategories fetches the user's categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, "/api/v1/categories/", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a new category.
func (c *Client) CreateCategory(ctx context.Context, create CategoryCreate) (*model.Category, error) {
	var category model.Category
	if err := c.post(ctx, "/api/v1/categories/", create, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory updates an existing category.
func (c *Client) UpdateCategory(ctx context.Context, categoryID int, update CategoryUpdate) (*model.Category, error) {
	var category model.Category
	if err := c.put(ctx, fmt.Sprintf("/api/v1/categories/%d", categoryID), update, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category. Tasks referencing it keep their
// dangling category id; the server does not cascade.
func (c *Client) DeleteCategory(ctx context.Context, categoryID int) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/categories/%d", categoryID))
}
