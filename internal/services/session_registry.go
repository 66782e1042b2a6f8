package services

import (
	"context"
	"time"

	"carpool-route-service/internal/domain"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

const DefaultSessionIdleTTL = 30 * time.Minute

// SessionRegistry tracks open routing sessions by ID.
type SessionRegistry struct {
	sessions *xsync.MapOf[string, *RoutingSession]
	deps     SessionDeps
	idleTTL  time.Duration
	log      *zap.Logger
}

func NewSessionRegistry(deps SessionDeps, idleTTL time.Duration) *SessionRegistry {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &SessionRegistry{
		sessions: xsync.NewMapOf[string, *RoutingSession](),
		deps:     deps,
		idleTTL:  idleTTL,
		log:      log,
	}
}

// Create opens a session over the given selectable passengers.
func (r *SessionRegistry) Create(selectable []domain.Passenger) *RoutingSession {
	id := uuid.NewString()
	s := NewRoutingSession(id, selectable, r.deps)
	r.sessions.Store(id, s)

	r.log.Info("session opened", zap.String("session_id", id), zap.Int("selectable", len(selectable)))
	return s
}

func (r *SessionRegistry) Get(id string) (*RoutingSession, error) {
	s, ok := r.sessions.Load(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Close removes and tears down the session with id.
func (r *SessionRegistry) Close(id string) error {
	s, ok := r.sessions.LoadAndDelete(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Close()
	return nil
}

func (r *SessionRegistry) CloseAll() {
	r.sessions.Range(func(id string, _ *RoutingSession) bool {
		_ = r.Close(id)
		return true
	})
}

func (r *SessionRegistry) Len() int {
	return r.sessions.Size()
}

// SweepIdle closes sessions inactive for longer than the idle TTL as of now
// and returns how many were closed.
func (r *SessionRegistry) SweepIdle(now time.Time) int {
	var expired []string
	r.sessions.Range(func(id string, s *RoutingSession) bool {
		if now.Sub(s.LastActive()) > r.idleTTL {
			expired = append(expired, id)
		}
		return true
	})

	closed := 0
	for _, id := range expired {
		if r.Close(id) == nil {
			closed++
		}
	}
	if closed > 0 {
		r.log.Info("expired idle sessions", zap.Int("count", closed))
	}
	return closed
}

// RunSweeper calls SweepIdle every interval until ctx is done.
func (r *SessionRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			r.SweepIdle(now)
		}
	}
}
