package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"taskmaster-tui/internal/model"
)

// LocationCreate holds the fields for creating a location.
type LocationCreate struct {
	Name       string   `json:"name"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Radius     *float64 `json:"radius,omitempty"`
	CategoryID *int     `json:"category_id,omitempty"`
}

// LocationUpdate holds the optional fields for updating a location.
type LocationUpdate struct {
	Name       *string  `json:"name,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Radius     *float64 `json:"radius,omitempty"`
	CategoryID *int     `json:"category_id,omitempty"`
}

// ListLocations fetches the user's registered locations.
func (c *Client) ListLocations(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	if err := c.get(ctx, "/api/v1/locations/", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// CreateLocation registers a new location.
func (c *Client) CreateLocation(ctx context.Context, create LocationCreate) (*model.Location, error) {
	var location model.Location
	if err := c.post(ctx, "/api/v1/locations/", create, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// UpdateLocation updates an existing location.
func (c *Client) UpdateLocation(ctx context.Context, locationID int, update LocationUpdate) (*model.Location, error) {
	var location model.Location
	if err := c.put(ctx, fmt.Sprintf("/api/v1/locations/%d", locationID), update, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// DeleteLocation removes a location.
func (c *Client) DeleteLocation(ctx context.Context, locationID int) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/locations/%d", locationID))
}

// NearbyLocation asks the server for the nearest registered location
// whose radius contains the given point. The server is the authority
// for this lookup; geo.Nearest mirrors it client-side for display.
// Returns nil when the point is inside no fence.
func (c *Client) NearbyLocation(ctx context.Context, latitude, longitude float64) (*model.NearbyLocation, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	var nearby *model.NearbyLocation
	if err := c.get(ctx, "/api/v1/locations/nearby?"+params.Encode(), &nearby); err != nil {
		return nil, err
	}
	return nearby, nil
}
