package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)

	var mu sync.Mutex
	var fired []time.Time
	fn := func() {
		mu.Lock()
		fired = append(fired, time.Now())
		mu.Unlock()
	}

	d.Schedule(fn)
	time.Sleep(20 * time.Millisecond)
	d.Schedule(fn)
	time.Sleep(20 * time.Millisecond)
	last := time.Now()
	d.Schedule(fn)
	assert.True(t, d.Pending())

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	assert.GreaterOrEqual(t, fired[0].Sub(last), 100*time.Millisecond)
	assert.False(t, d.Pending())
}

func TestDebouncerStopCancelsPendingCall(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	called := make(chan struct{}, 1)
	d.Schedule(func() { called <- struct{}{} })
	d.Stop()
	d.Schedule(func() { called <- struct{}{} })

	select {
	case <-called:
		t.Fatal("callback ran after Stop")
	case <-time.After(150 * time.Millisecond):
	}
	assert.False(t, d.Pending())
}

func TestDebouncerSeparateBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	calls := make(chan struct{}, 4)
	d.Schedule(func() { calls <- struct{}{} })
	time.Sleep(100 * time.Millisecond)
	d.Schedule(func() { calls <- struct{}{} })
	time.Sleep(100 * time.Millisecond)

	assert.Len(t, calls, 2)
}
