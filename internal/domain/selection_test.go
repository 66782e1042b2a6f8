package domain

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passenger(id string, homeLat float64) Passenger {
	return Passenger{
		ID:   id,
		Name: "P" + id,
		Home: Location{Coordinates: Coordinates{Lat: homeLat, Lng: 77.2}},
		Work: Location{Coordinates: Coordinates{Lat: homeLat - 0.05, Lng: 77.25}},
	}
}

func TestSelectionSetToggleTwiceRestoresEmpty(t *testing.T) {
	for _, p := range []Passenger{passenger("a", 28.6), passenger("", 0), {ID: "bare"}} {
		s := NewSelectionSet()
		assert.True(t, s.Toggle(p))
		assert.False(t, s.Toggle(p))
		assert.Equal(t, 0, s.Len(), "passenger %q", p.ID)
	}
}

func TestSelectionSetToggleComparesByID(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle(passenger("a", 28.6))

	// Same id, different payload: still the same passenger.
	renamed := passenger("a", 12.0)
	renamed.Name = "someone else"
	assert.False(t, s.Toggle(renamed))
	assert.False(t, s.Contains("a"))
}

func TestSelectionSetNeverHoldsDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d"}

	s := NewSelectionSet()
	for i := 0; i < 500; i++ {
		s.Toggle(passenger(ids[rng.Intn(len(ids))], float64(i)))

		seen := map[string]bool{}
		for _, p := range s.Passengers() {
			require.False(t, seen[p.ID], "duplicate id %q after %d toggles", p.ID, i+1)
			seen[p.ID] = true
		}
	}
}

func TestSelectionSetRemove(t *testing.T) {
	s := NewSelectionSet()
	a, b := passenger("a", 1), passenger("b", 2)
	s.Toggle(a)
	s.Toggle(b)

	s.Remove(a)
	s.Remove(a)
	s.Remove(passenger("missing", 3))

	assert.Equal(t, []Passenger{b}, s.Passengers())
}

func TestSelectionSetKeepsInsertionOrder(t *testing.T) {
	s := NewSelectionSet()
	for i := 5; i > 0; i-- {
		s.Toggle(passenger(fmt.Sprint(i), float64(i)))
	}

	got := make([]string, 0, s.Len())
	for _, p := range s.Passengers() {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, got)

	s.Clear()
	assert.Equal(t, 0, s.Len())
}
