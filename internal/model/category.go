package model

// Category groups tasks and locations under a user-chosen name and color.
// The color is stored and displayed verbatim; the server only requires it
// to be non-empty.
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	UserID int    `json:"user_id"`
}
