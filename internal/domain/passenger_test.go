package domain

import (
	"errors"
	"math"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func TestPassengerRecordToPassenger(t *testing.T) {
	valid := &AddressRecord{Latitude: ptr(28.6), Longitude: ptr(77.2), Address: "Home"}

	tests := []struct {
		name    string
		rec     PassengerRecord
		wantErr bool
	}{
		{"valid", PassengerRecord{ID: "1", HomeAddress: valid, WorkAddress: valid}, false},
		{"missing id", PassengerRecord{HomeAddress: valid, WorkAddress: valid}, true},
		{"no home", PassengerRecord{ID: "1", WorkAddress: valid}, true},
		{"null work latitude", PassengerRecord{ID: "1", HomeAddress: valid, WorkAddress: &AddressRecord{Longitude: ptr(77)}}, true},
		{"NaN home", PassengerRecord{ID: "1", HomeAddress: &AddressRecord{Latitude: ptr(math.NaN()), Longitude: ptr(77)}, WorkAddress: valid}, true},
		{"out of range", PassengerRecord{ID: "1", HomeAddress: valid, WorkAddress: &AddressRecord{Latitude: ptr(123), Longitude: ptr(77)}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.rec.ToPassenger()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Home.Address != "Home" || p.Home.Lat != 28.6 {
					t.Fatalf("home = %+v, want Home at 28.6", p.Home)
				}
				return
			}

			var inv *InvalidPassengerData
			if !errors.As(err, &inv) {
				t.Fatalf("err = %v, want *InvalidPassengerData", err)
			}
		})
	}
}

func TestCoordinatesNear(t *testing.T) {
	c := Coordinates{Lat: 28.6, Lng: 77.2}

	if !c.Near(Coordinates{Lat: 28.6009, Lng: 77.1991}, CoordinateTolerance) {
		t.Errorf("expected points within 0.0009 to match")
	}
	if c.Near(Coordinates{Lat: 28.6011, Lng: 77.2}, CoordinateTolerance) {
		t.Errorf("expected latitude off by 0.0011 not to match")
	}
	if c.Near(Coordinates{Lat: 28.6, Lng: 77.2015}, CoordinateTolerance) {
		t.Errorf("expected longitude off by 0.0015 not to match")
	}
}
