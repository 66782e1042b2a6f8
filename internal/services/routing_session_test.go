package services

import (
	"testing"
	"time"

	"carpool-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T, provider *stubProvider, pub *recordingPublisher, selectable []domain.Passenger) *RoutingSession {
	t.Helper()

	deps := SessionDeps{
		Provider:       provider,
		Log:            zap.NewNop(),
		DebounceWindow: 30 * time.Millisecond,
	}
	if pub != nil {
		deps.Publisher = pub
	}
	s := NewRoutingSession("s1", selectable, deps)
	t.Cleanup(s.Close)
	return s
}

func TestSessionToggleRejectsUnknownPassenger(t *testing.T) {
	s := newTestSession(t, &stubProvider{}, nil, paxN(2))

	_, err := s.Toggle("nobody")
	assert.ErrorIs(t, err, domain.ErrUnknownPassenger)
	assert.ErrorIs(t, s.Remove("nobody"), domain.ErrUnknownPassenger)
}

func TestSessionBurstOfTogglesAssemblesOnce(t *testing.T) {
	provider := &stubProvider{}
	pub := &recordingPublisher{}
	sel := paxN(3)
	s := newTestSession(t, provider, pub, sel)

	for _, p := range sel {
		selected, err := s.Toggle(p.ID)
		require.NoError(t, err)
		require.True(t, selected)
	}

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Route != nil && !snap.Pending
	}, time.Second, 10*time.Millisecond)

	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].Waypoints, 4)

	snap := s.Snapshot()
	assert.Len(t, snap.Selected, 3)
	assert.Len(t, snap.Route.Result.Legs, 5)
	assert.Len(t, snap.Metrics, 3)
	for _, m := range snap.Metrics {
		assert.False(t, m.Pending, "passenger %s", m.PassengerID)
	}
	assert.Equal(t, "15.0 km", snap.Totals.TotalDistanceText)
	assert.Empty(t, snap.LastError)
	assert.Equal(t, 1, pub.Count())
}

func TestSessionRemoveBelowTwoKeepsRoute(t *testing.T) {
	provider := &stubProvider{}
	sel := paxN(2)
	s := newTestSession(t, provider, nil, sel)

	for _, p := range sel {
		_, err := s.Toggle(p.ID)
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool { return s.Snapshot().Route != nil }, time.Second, 10*time.Millisecond)
	route := s.Snapshot().Route

	require.NoError(t, s.Remove(sel[0].ID))
	require.Eventually(t, func() bool { return !s.Snapshot().Pending }, time.Second, 10*time.Millisecond)

	snap := s.Snapshot()
	assert.Same(t, route, snap.Route)
	assert.Len(t, snap.Selected, 1)
	assert.Len(t, provider.Calls(), 1)
}

func TestSessionReset(t *testing.T) {
	sel := paxN(2)
	s := newTestSession(t, &stubProvider{}, nil, sel)

	_, err := s.Toggle(sel[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.Reset())

	assert.Empty(t, s.Snapshot().Selected)
}

func TestSessionClosedRejectsMutations(t *testing.T) {
	provider := &stubProvider{}
	sel := paxN(2)
	s := newTestSession(t, provider, nil, sel)

	_, err := s.Toggle(sel[0].ID)
	require.NoError(t, err)
	_, err = s.Toggle(sel[1].ID)
	require.NoError(t, err)
	s.Close()

	_, err = s.Toggle(sel[0].ID)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.ErrorIs(t, s.Remove(sel[0].ID), domain.ErrSessionClosed)
	assert.ErrorIs(t, s.Reset(), domain.ErrSessionClosed)

	// The pending debounced run was cancelled with the session.
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, provider.Calls())

	s.Close()
}
