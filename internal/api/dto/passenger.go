package dto

import "carpool-route-service/internal/domain"

type LocationResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type PassengerResponse struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Home LocationResponse `json:"home"`
	Work LocationResponse `json:"work"`
}

type ListPassengerResponse struct {
	Passengers []PassengerResponse `json:"passengers"`
}

func location(l domain.Location) LocationResponse {
	return LocationResponse{Lat: l.Lat, Lng: l.Lng, Address: l.Address}
}

func Passenger(p domain.Passenger) PassengerResponse {
	return PassengerResponse{
		ID:   p.ID,
		Name: p.Name,
		Home: location(p.Home),
		Work: location(p.Work),
	}
}

func Passengers(ps []domain.Passenger) []PassengerResponse {
	out := make([]PassengerResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, Passenger(p))
	}
	return out
}
