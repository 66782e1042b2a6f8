package services

import (
	"testing"
	"time"

	"carpool-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(ttl time.Duration) *SessionRegistry {
	return NewSessionRegistry(SessionDeps{
		Provider:       &stubProvider{},
		Log:            zap.NewNop(),
		DebounceWindow: 10 * time.Millisecond,
	}, ttl)
}

func TestRegistryCreateGetClose(t *testing.T) {
	r := newTestRegistry(time.Minute)
	t.Cleanup(r.CloseAll)

	s := r.Create(paxN(2))
	require.NotEmpty(t, s.ID())

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Close(s.ID()))
	_, err = r.Get(s.ID())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, r.Close(s.ID()), domain.ErrSessionNotFound)

	_, err = s.Toggle("p0")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestRegistrySweepIdle(t *testing.T) {
	r := newTestRegistry(time.Minute)
	t.Cleanup(r.CloseAll)

	idle := r.Create(paxN(2))
	active := r.Create(paxN(2))

	now := time.Now().Add(2 * time.Minute)
	active.lastActive.Store(now.UnixNano())

	assert.Equal(t, 1, r.SweepIdle(now))

	_, err := r.Get(idle.ID())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = r.Get(active.ID())
	assert.NoError(t, err)
}

func TestRegistryCloseAll(t *testing.T) {
	r := newTestRegistry(time.Minute)
	for i := 0; i < 5; i++ {
		r.Create(paxN(2))
	}

	r.CloseAll()
	assert.Zero(t, r.Len())
}
