package model

// DefaultLocationRadius is the geofence radius in meters applied when a
// location is created without one.
const DefaultLocationRadius = 500.0

// Location is a registered geofenced place. A task category can be bound
// to a location so that being inside the fence filters the task list.
type Location struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Radius     float64 `json:"radius"`
	CategoryID *int    `json:"category_id,omitempty"`
	OwnerID    int     `json:"owner_id"`
}

// NearbyLocation is a Location annotated with the distance in meters
// from the point it was matched against. It is only produced for
// locations whose own radius contains that point.
type NearbyLocation struct {
	Location
	Distance float64 `json:"distance"`
}
