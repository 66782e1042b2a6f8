package events

import (
	"context"
	"testing"
	"time"

	"carpool-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	err := p.PublishRouteCommitted(context.Background(), ports.RouteCommittedEvent{
		SessionID:           "s1",
		Seq:                 3,
		PassengerIDs:        []string{"a", "b"},
		TotalDistanceMeters: 12000,
		CommittedAt:         time.Now(),
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "s1", fields["session_id"])
	assert.EqualValues(t, 3, fields["seq"])
	assert.EqualValues(t, 12000, fields["total_distance_meters"])
}

func TestNewAMQPPublisherRejectsNilConnection(t *testing.T) {
	_, err := NewAMQPPublisher(nil, zap.NewNop())
	assert.Error(t, err)
}
