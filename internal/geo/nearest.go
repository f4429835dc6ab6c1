package geo

import "taskmaster-tui/internal/model"

// Nearest returns the closest registered location whose own radius
// contains the given point, or nil when the point is inside no fence.
// Each location's radius is respected independently: a nearer location
// whose fence does not reach the point never wins over a farther one
// whose fence does. Ties keep the first-encountered location.
func Nearest(lat, lon float64, locations []model.Location) *model.NearbyLocation {
	var best *model.NearbyLocation

	for _, loc := range locations {
		d := Distance(lat, lon, loc.Latitude, loc.Longitude)
		if d > loc.Radius {
			continue
		}
		if best == nil || d < best.Distance {
			best = &model.NearbyLocation{Location: loc, Distance: d}
		}
	}

	return best
}
