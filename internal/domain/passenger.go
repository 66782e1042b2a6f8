package domain

// A resolved place: coordinates plus the human-readable address.
type Location struct {
	Coordinates
	Address string `json:"address"`
}

// Represents a passenger eligible for routing.
// Both locations are guaranteed to be valid; records that fail this check
// never become a Passenger (see PassengerRecord.ToPassenger).
type Passenger struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Home Location `json:"home"`
	Work Location `json:"work"`
}

// An address as delivered by an upstream source. Coordinates are optional
// because upstream systems routinely return partial data.
type AddressRecord struct {
	Latitude  *float64
	Longitude *float64
	Address   string
}

// Raw passenger data before validation.
type PassengerRecord struct {
	ID          string
	Name        string
	HomeAddress *AddressRecord
	WorkAddress *AddressRecord
}

func (a *AddressRecord) location() (Location, bool) {
	if a == nil || a.Latitude == nil || a.Longitude == nil {
		return Location{}, false
	}
	loc := Location{
		Coordinates: Coordinates{Lat: *a.Latitude, Lng: *a.Longitude},
		Address:     a.Address,
	}
	return loc, loc.Valid()
}

// ToPassenger validates the record and converts it into a Passenger.
// It returns an *InvalidPassengerData error when either location is missing
// or not numeric.
func (r PassengerRecord) ToPassenger() (Passenger, error) {
	if r.ID == "" {
		return Passenger{}, &InvalidPassengerData{PassengerID: r.ID, Reason: "missing id"}
	}

	home, ok := r.HomeAddress.location()
	if !ok {
		return Passenger{}, &InvalidPassengerData{PassengerID: r.ID, Reason: "home location missing or invalid"}
	}

	work, ok := r.WorkAddress.location()
	if !ok {
		return Passenger{}, &InvalidPassengerData{PassengerID: r.ID, Reason: "work location missing or invalid"}
	}

	return Passenger{ID: r.ID, Name: r.Name, Home: home, Work: work}, nil
}
