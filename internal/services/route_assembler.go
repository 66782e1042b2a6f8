package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/platform/metrics"
	"carpool-route-service/internal/platform/obs"
	"carpool-route-service/internal/ports"

	"go.uber.org/zap"
)

// Outcome describes what a single assembly run did to the cached route.
type Outcome string

const (
	// Fewer than two passengers or no provider: nothing was requested.
	OutcomeSkipped Outcome = "skipped"
	// A new RouteState replaced the previous one.
	OutcomeCommitted Outcome = "committed"
	// The provider failed; the previous RouteState is kept and lastError set.
	OutcomeFailed Outcome = "failed"
	// The response arrived after a newer run was applied, or after Close.
	OutcomeDiscarded Outcome = "discarded"
)

const DefaultRouteTimeout = 15 * time.Second

type AssemblerOptions struct {
	// Upper bound on a single provider call. Zero means DefaultRouteTimeout.
	Timeout time.Duration
	Metrics *metrics.Metrics
	// Called after every commit, outside the assembler lock.
	OnCommit func(state *domain.RouteState)
}

// RouteAssembler turns a passenger selection into a committed route.
//
// Runs may overlap. Each run takes a sequence number before it calls the
// provider, and a resolution is applied only if no run with a higher
// sequence number has been applied already. The cached route therefore
// always reflects the most recently initiated run that resolved, never an
// older one that happened to resolve last.
//
// The assembler is safe for concurrent use.
type RouteAssembler struct {
	provider ports.MapProvider
	log      *zap.Logger
	opts     AssemblerOptions

	// Cancelled by Close so in-flight provider calls abort.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	nextSeq    uint64
	appliedSeq uint64
	state      *domain.RouteState
	lastErr    error
	closed     bool
}

func NewRouteAssembler(provider ports.MapProvider, log *zap.Logger, opts AssemblerOptions) *RouteAssembler {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRouteTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &RouteAssembler{
		provider: provider,
		log:      log,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run assembles a route for selection and commits it when it is still the
// newest result. A *domain.RoutingFailure is returned on provider failure.
func (a *RouteAssembler) Run(ctx context.Context, selection []domain.Passenger) (_ Outcome, err error) {
	if a.provider == nil || len(selection) < 2 {
		a.opts.Metrics.RouteRun(string(OutcomeSkipped))
		return OutcomeSkipped, nil
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return OutcomeDiscarded, domain.ErrAssemblerClosed
	}
	a.nextSeq++
	seq := a.nextSeq
	a.mu.Unlock()

	defer obs.Time(ctx, a.log, "route.assemble")(&err)

	snapshot := OrderPassengers(selection)
	req := BuildRouteRequest(BuildWaypoints(snapshot))

	result, ordered, err := a.compute(ctx, req)
	if err != nil && ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// Caller went away; nothing to report and nothing to apply.
		a.opts.Metrics.RouteRun(string(OutcomeDiscarded))
		return OutcomeDiscarded, ctx.Err()
	}

	outcome, err := a.commit(seq, result, ordered, snapshot, err)
	a.opts.Metrics.RouteRun(string(outcome))
	return outcome, err
}

func (a *RouteAssembler) compute(
	ctx context.Context,
	req domain.RouteRequest,
) (*domain.RouteResult, []domain.Coordinates, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(a.ctx, cancel)
	defer stop()

	start := time.Now()
	result, err := a.provider.Route(callCtx, req)
	if err != nil {
		rf := toRoutingFailure(callCtx, err)
		a.opts.Metrics.ProviderCall(rf.Status, time.Since(start))
		return nil, nil, rf
	}
	a.opts.Metrics.ProviderCall("OK", time.Since(start))

	if result == nil {
		return nil, nil, &domain.RoutingFailure{Status: domain.StatusInvalidResponse, Message: "empty result"}
	}

	if want := len(req.Waypoints) + 1; len(result.Legs) != want {
		return nil, nil, &domain.RoutingFailure{
			Status:  domain.StatusInvalidResponse,
			Message: fmt.Sprintf("got %d legs, want %d", len(result.Legs), want),
		}
	}

	ordered, ok := EffectiveStopOrder(req, result.WaypointOrder)
	if !ok {
		return nil, nil, &domain.RoutingFailure{
			Status:  domain.StatusInvalidResponse,
			Message: fmt.Sprintf("waypoint order %v is not a permutation of %d stops", result.WaypointOrder, len(req.Waypoints)),
		}
	}

	return result, ordered, nil
}

func toRoutingFailure(callCtx context.Context, err error) *domain.RoutingFailure {
	if rf, ok := domain.AsRoutingFailure(err); ok {
		return rf
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &domain.RoutingFailure{Status: domain.StatusTimeout, Message: err.Error()}
	}
	return &domain.RoutingFailure{Status: domain.StatusUnavailable, Message: err.Error()}
}

func (a *RouteAssembler) commit(
	seq uint64,
	result *domain.RouteResult,
	ordered []domain.Coordinates,
	snapshot []domain.Passenger,
	runErr error,
) (Outcome, error) {
	a.mu.Lock()

	if a.closed {
		a.mu.Unlock()
		return OutcomeDiscarded, domain.ErrAssemblerClosed
	}

	if seq < a.appliedSeq {
		applied := a.appliedSeq
		a.mu.Unlock()
		a.log.Debug("discarding superseded route result",
			zap.Uint64("seq", seq), zap.Uint64("applied_seq", applied))
		return OutcomeDiscarded, nil
	}
	a.appliedSeq = seq

	if runErr != nil {
		a.lastErr = runErr
		a.mu.Unlock()
		a.log.Warn("route assembly failed, keeping previous route",
			zap.Uint64("seq", seq), zap.Error(runErr))
		return OutcomeFailed, runErr
	}

	state := &domain.RouteState{
		Seq:              seq,
		Result:           result,
		OrderedLocations: ordered,
		UserLocations:    snapshot,
		CommittedAt:      time.Now(),
	}
	a.state = state
	a.lastErr = nil
	a.mu.Unlock()

	a.log.Info("route committed",
		zap.Uint64("seq", seq),
		zap.Int("passengers", len(snapshot)),
		zap.Int("legs", len(result.Legs)))

	if a.opts.OnCommit != nil {
		a.opts.OnCommit(state)
	}
	return OutcomeCommitted, nil
}

// State returns the last committed route (nil before the first success)
// and the error of the most recent applied run, if it failed.
func (a *RouteAssembler) State() (*domain.RouteState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.lastErr
}

// Close aborts in-flight provider calls. Results resolving afterwards are
// ignored and later runs are refused.
func (a *RouteAssembler) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.cancel()
}
