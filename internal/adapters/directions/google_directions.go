package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/platform/obs"

	"go.uber.org/zap"
)

const (
	DefaultGoogleBaseURL = "https://maps.googleapis.com"
	directionsPath       = "/maps/api/directions/json"
)

// GoogleDirectionsProvider implements ports.MapProvider on the Google
// Directions web service.
//
// The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	http    *httpClient
	apiKey  string
	baseURL string
	log     *zap.Logger
}

func NewGoogleDirectionsProvider(apiKey, baseURL string, log *zap.Logger) (*GoogleDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google directions: api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}

	return &GoogleDirectionsProvider{
		http:    newHTTPClient(10 * time.Second),
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}, nil
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs          []domain.Leg `json:"legs"`
		WaypointOrder []int        `json:"waypoint_order"`
	} `json:"routes"`
}

func (g *GoogleDirectionsProvider) Route(ctx context.Context, req domain.RouteRequest) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, g.log, "directions.google.Route")(&err)

	endpoint := g.baseURL + directionsPath + "?" + g.query(req).Encode()

	resp, err := g.http.doWithRetry(ctx, func() (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		r.Header.Set("Accept", "application/json")
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("google directions: %w", err)
	}
	defer resp.Body.Close()

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.RoutingFailure{
			Status:  domain.StatusInvalidResponse,
			Message: fmt.Sprintf("decode directions response: %v", err),
		}
	}

	if body.Status != "OK" {
		return nil, &domain.RoutingFailure{Status: body.Status, Message: body.ErrorMessage}
	}
	if len(body.Routes) == 0 {
		return nil, &domain.RoutingFailure{Status: "ZERO_RESULTS", Message: "no routes in response"}
	}

	route := body.Routes[0]
	return &domain.RouteResult{
		Legs:          route.Legs,
		WaypointOrder: route.WaypointOrder,
	}, nil
}

func (g *GoogleDirectionsProvider) query(req domain.RouteRequest) url.Values {
	q := url.Values{}
	q.Set("origin", req.Origin.String())
	q.Set("destination", req.Destination.String())
	mode := strings.ToLower(req.TravelMode)
	if mode == "" {
		mode = "driving"
	}
	q.Set("mode", mode)
	q.Set("key", g.apiKey)

	if len(req.Waypoints) > 0 {
		parts := make([]string, 0, len(req.Waypoints)+1)
		if req.OptimizeWaypoints {
			parts = append(parts, "optimize:true")
		}
		for _, w := range req.Waypoints {
			if w.Stopover {
				parts = append(parts, w.Location.String())
			} else {
				parts = append(parts, "via:"+w.Location.String())
			}
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}

	return q
}
