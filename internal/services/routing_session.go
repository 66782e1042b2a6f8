package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/platform/metrics"
	"carpool-route-service/internal/ports"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// SessionDeps holds what every RoutingSession shares.
type SessionDeps struct {
	Provider       ports.MapProvider
	Publisher      ports.EventPublisher
	Log            *zap.Logger
	Metrics        *metrics.Metrics
	RouteTimeout   time.Duration
	DebounceWindow time.Duration
}

// SessionSnapshot is a consistent read of a session at one instant.
type SessionSnapshot struct {
	ID         string
	Selectable []domain.Passenger
	Selected   []domain.Passenger
	Route      *domain.RouteState
	Metrics    []domain.PassengerMetric
	Totals     domain.RouteTotals
	LastError  string
	Pending    bool
	LastActive time.Time
}

// RoutingSession is one operator's routing screen: the passengers they may
// pick from, their current selection, and the route assembled for it.
//
// Every selection change schedules a debounced assembly run. The session
// lives until Close, after which late provider results are ignored.
type RoutingSession struct {
	id  string
	log *zap.Logger

	selectable []domain.Passenger
	byID       map[string]domain.Passenger

	ctx       context.Context
	cancel    context.CancelFunc
	assembler *RouteAssembler
	debounce  *Debouncer
	publisher ports.EventPublisher
	metrics   *metrics.Metrics

	lastActive atomic.Int64

	mu        sync.Mutex
	selection *domain.SelectionSet
	closed    bool
}

func NewRoutingSession(id string, selectable []domain.Passenger, deps SessionDeps) *RoutingSession {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session_id", id))

	ctx, cancel := context.WithCancel(context.Background())

	s := &RoutingSession{
		id:         id,
		log:        log,
		selectable: selectable,
		byID:       lo.KeyBy(selectable, func(p domain.Passenger) string { return p.ID }),
		ctx:        ctx,
		cancel:     cancel,
		debounce:   NewDebouncer(deps.DebounceWindow),
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		selection:  domain.NewSelectionSet(),
	}
	s.assembler = NewRouteAssembler(deps.Provider, log, AssemblerOptions{
		Timeout:  deps.RouteTimeout,
		Metrics:  deps.Metrics,
		OnCommit: s.publishCommitted,
	})
	s.touch()
	deps.Metrics.SessionOpened()

	return s
}

func (s *RoutingSession) ID() string { return s.id }

func (s *RoutingSession) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *RoutingSession) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Toggle flips the selection state of the passenger with id and reports
// whether it is selected afterwards.
func (s *RoutingSession) Toggle(id string) (bool, error) {
	return s.mutate(id, func(p domain.Passenger) bool {
		return s.selection.Toggle(p)
	})
}

// Remove deselects the passenger with id.
func (s *RoutingSession) Remove(id string) error {
	_, err := s.mutate(id, func(p domain.Passenger) bool {
		s.selection.Remove(p)
		return false
	})
	return err
}

func (s *RoutingSession) mutate(id string, fn func(domain.Passenger) bool) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, domain.ErrSessionClosed
	}
	p, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return false, domain.ErrUnknownPassenger
	}
	selected := fn(p)
	s.mu.Unlock()

	s.touch()
	s.debounce.Schedule(s.assemble)
	return selected, nil
}

// Reset clears the selection. The last committed route is kept.
func (s *RoutingSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	s.selection.Clear()
	s.touch()
	return nil
}

// assemble runs on the debouncer's goroutine and reads the selection as it
// is when the quiet period ends.
func (s *RoutingSession) assemble() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	selection := s.selection.Passengers()
	s.mu.Unlock()

	// Failures are recorded in the assembler state and logged there.
	_, _ = s.assembler.Run(s.ctx, selection)
}

func (s *RoutingSession) publishCommitted(state *domain.RouteState) {
	if s.publisher == nil {
		return
	}

	totals := Aggregate(state)
	evt := ports.RouteCommittedEvent{
		SessionID:            s.id,
		Seq:                  state.Seq,
		PassengerIDs:         lo.Map(state.UserLocations, func(p domain.Passenger, _ int) string { return p.ID }),
		TotalDistanceMeters:  totals.TotalDistanceMeters,
		TotalDurationSeconds: totals.TotalDurationSeconds,
		CommittedAt:          state.CommittedAt,
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishRouteCommitted(ctx, evt); err != nil {
		s.log.Warn("publish route committed", zap.Uint64("seq", state.Seq), zap.Error(err))
	}
}

// Snapshot returns the selection together with the last committed route
// and the metrics derived from it.
func (s *RoutingSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	selected := s.selection.Passengers()
	s.mu.Unlock()

	route, lastErr := s.assembler.State()

	snap := SessionSnapshot{
		ID:         s.id,
		Selectable: s.selectable,
		Selected:   selected,
		Route:      route,
		Metrics:    PassengerMetrics(selected, route),
		Totals:     Aggregate(route),
		Pending:    s.debounce.Pending(),
		LastActive: s.LastActive(),
	}
	if lastErr != nil {
		snap.LastError = lastErr.Error()
	}
	return snap
}

// Close tears the session down. It is safe to call more than once.
func (s *RoutingSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.selection.Clear()
	s.mu.Unlock()

	s.debounce.Stop()
	s.assembler.Close()
	s.cancel()
	s.metrics.SessionClosed()
	s.log.Debug("session closed")
}
