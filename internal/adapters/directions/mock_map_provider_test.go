package directions

import (
	"context"
	"slices"
	"testing"

	"carpool-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockMapProviderLegsAndOrder(t *testing.T) {
	req := testRequest()

	res, err := NewMockMapProvider().Route(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, res.Legs, len(req.Waypoints)+1)
	assert.ElementsMatch(t, []int{0, 1}, res.WaypointOrder)

	// From 28.60,77.20 the stop at 28.61,77.21 is closer than 28.55,77.25.
	assert.Equal(t, []int{1, 0}, res.WaypointOrder)

	for i, leg := range res.Legs {
		assert.Positive(t, leg.Distance.Value, "leg %d", i)
		assert.NotEmpty(t, leg.Distance.Text)
	}
	assert.Equal(t, req.Origin, res.Legs[0].StartLocation)
	assert.Equal(t, req.Destination, res.Legs[len(res.Legs)-1].EndLocation)
}

func TestMockMapProviderKeepsOrderWithoutOptimize(t *testing.T) {
	req := testRequest()
	req.OptimizeWaypoints = false

	res, err := NewMockMapProvider().Route(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, slices.Equal([]int{0, 1}, res.WaypointOrder))
}

func TestHaversineMeters(t *testing.T) {
	// One degree of latitude is about 111.2 km.
	d := haversineMeters(domain.Coordinates{Lat: 0, Lng: 0}, domain.Coordinates{Lat: 1, Lng: 0})
	assert.InDelta(t, 111195, d, 100)
	assert.Zero(t, haversineMeters(domain.Coordinates{Lat: 5, Lng: 5}, domain.Coordinates{Lat: 5, Lng: 5}))
}
