package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperExpiresStaleBooking(t *testing.T) {
	f := newFixture(t)

	// Create through the service with a clock set before the booking's
	// start, then let the sweeper observe the real clock, for which the
	// start has long passed.
	start := time.Now().Add(-2 * time.Hour)
	f.service.now = func() time.Time { return start.Add(-time.Minute) }

	b, err := f.service.Create(context.Background(), CreateRequest{
		RoomID:    "room-x",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}, f.alice)
	require.NoError(t, err)

	sweeper := NewSweeper(f.service, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	assert.Eventually(t, func() bool {
		got, err := f.repo.GetByID(context.Background(), b.ID)
		return err == nil && got.Status == StatusRejected
	}, time.Second, 5*time.Millisecond, "sweeper must auto-reject the stale booking")
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	f := newFixture(t)
	sweeper := NewSweeper(f.service, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
