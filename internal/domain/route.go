package domain

import "time"

type WaypointRole string

const (
	RoleHome WaypointRole = "home"
	RoleWork WaypointRole = "work"
)

// TravelModeDriving is the only travel mode the routing screen requests.
const TravelModeDriving = "DRIVING"

// A single stop the route must pass through.
type Waypoint struct {
	Location    Coordinates  `json:"location"`
	Role        WaypointRole `json:"role"`
	PassengerID string       `json:"passenger_id"`
}

// An intermediate stop in a RouteRequest.
// Stopover stops are mandatory and may not be dropped by the provider.
type Stop struct {
	Location Coordinates
	Stopover bool
}

// Represents a multi-stop route computation submitted to a MapProvider.
// The provider may reorder Waypoints when OptimizeWaypoints is set;
// Origin and Destination are fixed.
type RouteRequest struct {
	Origin            Coordinates
	Destination       Coordinates
	Waypoints         []Stop
	OptimizeWaypoints bool
	TravelMode        string
}

// A provider-formatted measurement: display text plus raw value
// (meters for distances, seconds for durations).
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// The portion of a route between two consecutive stops.
type Leg struct {
	Distance      TextValue   `json:"distance"`
	Duration      TextValue   `json:"duration"`
	StartLocation Coordinates `json:"start_location"`
	EndLocation   Coordinates `json:"end_location"`
}

// Represents the result returned by a MapProvider.
// WaypointOrder, when present, maps output position to the index of the
// intermediate stop in the request. A RouteResult is never mutated.
type RouteResult struct {
	Legs          []Leg `json:"legs"`
	WaypointOrder []int `json:"waypoint_order,omitempty"`
}

// Represents the committed outcome of one successful assembly run.
// OrderedLocations is the stop order the provider actually used and
// UserLocations the selection snapshot the request was built from.
// A RouteState is replaced as a whole and never modified in place.
type RouteState struct {
	Seq              uint64
	Result           *RouteResult
	OrderedLocations []Coordinates
	UserLocations    []Passenger
	CommittedAt      time.Time
}

// Per-passenger distance/time attribution derived from a RouteState.
type PassengerMetric struct {
	PassengerID  string `json:"passenger_id"`
	DistanceText string `json:"distance_text"`
	DurationText string `json:"duration_text"`
	Pending      bool   `json:"pending"`
}

// Aggregate distance/time over every leg of a route.
type RouteTotals struct {
	TotalDistanceText    string `json:"total_distance_text"`
	TotalDurationText    string `json:"total_duration_text"`
	TotalDistanceMeters  int    `json:"total_distance_meters"`
	TotalDurationSeconds int    `json:"total_duration_seconds"`
}
