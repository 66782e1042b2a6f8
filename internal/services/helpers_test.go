package services

import (
	"context"
	"fmt"
	"sync"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/ports"
)

func pax(id string, homeLat, homeLng, workLat, workLng float64) domain.Passenger {
	return domain.Passenger{
		ID:   id,
		Name: "P" + id,
		Home: domain.Location{Coordinates: domain.Coordinates{Lat: homeLat, Lng: homeLng}},
		Work: domain.Location{Coordinates: domain.Coordinates{Lat: workLat, Lng: workLng}},
	}
}

// paxN returns n passengers with distinct, increasing home latitudes.
func paxN(n int) []domain.Passenger {
	out := make([]domain.Passenger, n)
	for i := range out {
		lat := 28.50 + float64(i)*0.01
		out[i] = pax(fmt.Sprintf("p%d", i), lat, 77.20, lat-0.05, 77.25)
	}
	return out
}

// legsFor builds one leg per hop of req, leg i being (i+1) km and (i+1) min.
func legsFor(req domain.RouteRequest) *domain.RouteResult {
	stops := make([]domain.Coordinates, 0, len(req.Waypoints)+2)
	stops = append(stops, req.Origin)
	for _, w := range req.Waypoints {
		stops = append(stops, w.Location)
	}
	stops = append(stops, req.Destination)

	legs := make([]domain.Leg, 0, len(stops)-1)
	for i := 0; i+1 < len(stops); i++ {
		m, s := (i+1)*1000, (i+1)*60
		legs = append(legs, domain.Leg{
			Distance:      domain.TextValue{Text: fmt.Sprintf("%d.0 km", i+1), Value: m},
			Duration:      domain.TextValue{Text: fmt.Sprintf("%d mins", i+1), Value: s},
			StartLocation: stops[i],
			EndLocation:   stops[i+1],
		})
	}
	return &domain.RouteResult{Legs: legs}
}

// stubProvider answers every request with fn and records what it was asked.
type stubProvider struct {
	fn func(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error)

	mu    sync.Mutex
	calls []domain.RouteRequest
}

func (p *stubProvider) Route(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if p.fn == nil {
		return legsFor(req), nil
	}
	return p.fn(ctx, req)
}

func (p *stubProvider) Calls() []domain.RouteRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.RouteRequest(nil), p.calls...)
}

type reply struct {
	result *domain.RouteResult
	err    error
}

// gatedProvider blocks call i until release(i) is invoked. It ignores
// context cancellation so tests control exactly when a result lands.
type gatedProvider struct {
	started chan int

	mu    sync.Mutex
	gates []chan reply
	reqs  []domain.RouteRequest
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{started: make(chan int, 16)}
}

func (g *gatedProvider) Route(_ context.Context, req domain.RouteRequest) (*domain.RouteResult, error) {
	g.mu.Lock()
	ch := make(chan reply, 1)
	g.gates = append(g.gates, ch)
	g.reqs = append(g.reqs, req)
	idx := len(g.gates) - 1
	g.mu.Unlock()

	g.started <- idx
	r := <-ch
	return r.result, r.err
}

func (g *gatedProvider) succeed(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates[i] <- reply{result: legsFor(g.reqs[i])}
}

func (g *gatedProvider) fail(i int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates[i] <- reply{err: err}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	seqs   []uint64
}

func (r *recordingPublisher) PublishRouteCommitted(_ context.Context, evt ports.RouteCommittedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt.SessionID)
	r.seqs = append(r.seqs, evt.Seq)
	return nil
}

func (r *recordingPublisher) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
