package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"carpool-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const okBody = `{
  "status": "OK",
  "routes": [{
    "waypoint_order": [1, 0],
    "legs": [
      {"distance": {"text": "5.0 km", "value": 5000}, "duration": {"text": "10 mins", "value": 600},
       "start_location": {"lat": 28.6, "lng": 77.2}, "end_location": {"lat": 28.61, "lng": 77.21}},
      {"distance": {"text": "3.0 km", "value": 3000}, "duration": {"text": "7 mins", "value": 420},
       "start_location": {"lat": 28.61, "lng": 77.21}, "end_location": {"lat": 28.55, "lng": 77.25}},
      {"distance": {"text": "4.0 km", "value": 4000}, "duration": {"text": "9 mins", "value": 540},
       "start_location": {"lat": 28.55, "lng": 77.25}, "end_location": {"lat": 28.56, "lng": 77.24}}
    ]
  }]
}`

func testRequest() domain.RouteRequest {
	return domain.RouteRequest{
		Origin:      domain.Coordinates{Lat: 28.6, Lng: 77.2},
		Destination: domain.Coordinates{Lat: 28.56, Lng: 77.24},
		Waypoints: []domain.Stop{
			{Location: domain.Coordinates{Lat: 28.55, Lng: 77.25}, Stopover: true},
			{Location: domain.Coordinates{Lat: 28.61, Lng: 77.21}, Stopover: true},
		},
		OptimizeWaypoints: true,
		TravelMode:        domain.TravelModeDriving,
	}
}

func newTestProvider(t *testing.T, h http.HandlerFunc) *GoogleDirectionsProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewGoogleDirectionsProvider("test-key", srv.URL, zap.NewNop())
	require.NoError(t, err)
	p.http.backoff = 0
	return p
}

func TestGoogleDirectionsRoute(t *testing.T) {
	var gotQuery map[string]string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, directionsPath, r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"origin":      q.Get("origin"),
			"destination": q.Get("destination"),
			"waypoints":   q.Get("waypoints"),
			"mode":        q.Get("mode"),
			"key":         q.Get("key"),
		}
		_, _ = w.Write([]byte(okBody))
	})

	res, err := p.Route(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"origin":      "28.600000,77.200000",
		"destination": "28.560000,77.240000",
		"waypoints":   "optimize:true|28.550000,77.250000|28.610000,77.210000",
		"mode":        "driving",
		"key":         "test-key",
	}, gotQuery)

	require.Len(t, res.Legs, 3)
	assert.Equal(t, []int{1, 0}, res.WaypointOrder)
	assert.Equal(t, "5.0 km", res.Legs[0].Distance.Text)
	assert.Equal(t, 600, res.Legs[0].Duration.Value)
	assert.Equal(t, domain.Coordinates{Lat: 28.61, Lng: 77.21}, res.Legs[1].StartLocation)
}

func TestGoogleDirectionsNonOKStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","routes":[]}`))
	})

	_, err := p.Route(context.Background(), testRequest())
	rf, ok := domain.AsRoutingFailure(err)
	require.True(t, ok)
	assert.Equal(t, "REQUEST_DENIED", rf.Status)
	assert.Equal(t, "The provided API key is invalid.", rf.Message)
}

func TestGoogleDirectionsMalformedBody(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := p.Route(context.Background(), testRequest())
	rf, ok := domain.AsRoutingFailure(err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusInvalidResponse, rf.Status)
}

func TestGoogleDirectionsRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(okBody))
	})

	res, err := p.Route(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Len(t, res.Legs, 3)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGoogleDirectionsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := p.Route(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "400"))
	assert.EqualValues(t, 1, calls.Load())
}

func TestNewGoogleDirectionsProviderRequiresKey(t *testing.T) {
	_, err := NewGoogleDirectionsProvider("", "", zap.NewNop())
	assert.Error(t, err)
}
