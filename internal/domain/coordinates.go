package domain

import (
	"fmt"
	"math"
)

// Tolerance used to match provider-returned coordinates against waypoints.
// Providers may snap or round locations, so matching is by absolute
// difference on each axis (roughly 100m at the equator).
const CoordinateTolerance = 0.001

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and within range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Near reports whether o lies within tol degrees of c on both axes.
func (c Coordinates) Near(o Coordinates, tol float64) bool {
	return math.Abs(c.Lat-o.Lat) < tol && math.Abs(c.Lng-o.Lng) < tol
}

// Return coordinates as "lat,lng" for directions API compatibility.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}
