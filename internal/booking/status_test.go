package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusPending, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusCompleted.Terminal())
}

func testBooking(status Status) *Booking {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Booking{
		ID:        "b1",
		RoomID:    "r1",
		UserID:    "u1",
		RoomName:  "Boardroom",
		UserName:  "Ada Lovelace",
		UserEmail: "ada@example.com",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
		IsActive:  true,
	}
}

func TestApproveTransition(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("pending booking is approved", func(t *testing.T) {
		b := testBooking(StatusPending)
		msgs, err := b.Approve("approver-1", now)
		require.NoError(t, err)

		assert.Equal(t, StatusApproved, b.Status)
		require.NotNil(t, b.ApprovedBy)
		assert.Equal(t, "approver-1", *b.ApprovedBy)
		require.NotNil(t, b.ApprovedAt)
		assert.Equal(t, now, *b.ApprovedAt)

		require.Len(t, msgs, 1)
		assert.Equal(t, "ada@example.com", msgs[0].To)
		assert.Equal(t, "Booking Approved", msgs[0].Subject)
	})

	t.Run("non-pending booking is rejected with current status", func(t *testing.T) {
		for _, status := range []Status{StatusApproved, StatusRejected, StatusCancelled, StatusCompleted} {
			b := testBooking(status)
			_, err := b.Approve("approver-1", now)

			var stateErr *StateConflictError
			require.ErrorAs(t, err, &stateErr, "status %s", status)
			assert.Equal(t, status, stateErr.Current)
			assert.Equal(t, status, b.Status, "status must not change")
		}
	})
}

func TestRejectTransition(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("with reason", func(t *testing.T) {
		b := testBooking(StatusPending)
		msgs, err := b.Reject("room under maintenance", now)
		require.NoError(t, err)

		assert.Equal(t, StatusRejected, b.Status)
		require.NotNil(t, b.RejectionReason)
		assert.Equal(t, "room under maintenance", *b.RejectionReason)

		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0].Body, "room under maintenance")
	})

	t.Run("without reason", func(t *testing.T) {
		b := testBooking(StatusPending)
		msgs, err := b.Reject("", now)
		require.NoError(t, err)

		assert.Equal(t, StatusRejected, b.Status)
		assert.Nil(t, b.RejectionReason)
		require.Len(t, msgs, 1)
	})

	t.Run("approved booking cannot be rejected", func(t *testing.T) {
		b := testBooking(StatusApproved)
		_, err := b.Reject("too late", now)

		var stateErr *StateConflictError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, StatusApproved, stateErr.Current)
	})
}

func TestCancelTransition(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("pending and approved bookings can be cancelled", func(t *testing.T) {
		for _, status := range []Status{StatusPending, StatusApproved} {
			b := testBooking(status)
			_, err := b.Cancel(now)
			require.NoError(t, err, "status %s", status)
			assert.Equal(t, StatusCancelled, b.Status)
		}
	})

	t.Run("terminal bookings cannot be cancelled", func(t *testing.T) {
		for _, status := range []Status{StatusRejected, StatusCancelled, StatusCompleted} {
			b := testBooking(status)
			_, err := b.Cancel(now)

			var stateErr *StateConflictError
			require.ErrorAs(t, err, &stateErr, "status %s", status)
			assert.Equal(t, status, b.Status)
		}
	})
}

func TestExpireTransition(t *testing.T) {
	t.Run("pending booking past its start is auto-rejected", func(t *testing.T) {
		b := testBooking(StatusPending)
		msgs, err := b.Expire(b.StartTime.Add(time.Minute))
		require.NoError(t, err)

		assert.Equal(t, StatusRejected, b.Status)
		require.NotNil(t, b.RejectionReason)

		require.Len(t, msgs, 1)
		assert.Equal(t, "Booking Request Expired", msgs[0].Subject)
	})

	t.Run("pending booking before its start is untouched", func(t *testing.T) {
		b := testBooking(StatusPending)
		_, err := b.Expire(b.StartTime.Add(-time.Minute))
		require.Error(t, err)
		assert.Equal(t, StatusPending, b.Status)
	})

	t.Run("only pending bookings are swept", func(t *testing.T) {
		for _, status := range []Status{StatusApproved, StatusRejected, StatusCancelled, StatusCompleted} {
			b := testBooking(status)
			_, err := b.Expire(b.StartTime.Add(time.Hour))
			require.Error(t, err, "status %s", status)
			assert.Equal(t, status, b.Status)
		}
	})
}

func TestOverlaps(t *testing.T) {
	b := testBooking(StatusPending) // 10:00 - 11:00
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 1, h, m, 0, 0, time.UTC)
	}

	assert.True(t, b.Overlaps(at(10, 30), at(11, 30)), "partial overlap")
	assert.True(t, b.Overlaps(at(9, 30), at(10, 30)), "overlap at start")
	assert.True(t, b.Overlaps(at(10, 15), at(10, 45)), "contained interval")
	assert.True(t, b.Overlaps(at(9, 0), at(12, 0)), "containing interval")

	assert.False(t, b.Overlaps(at(11, 0), at(12, 0)), "touching end does not conflict")
	assert.False(t, b.Overlaps(at(9, 0), at(10, 0)), "touching start does not conflict")
	assert.False(t, b.Overlaps(at(12, 0), at(13, 0)), "disjoint after")
	assert.False(t, b.Overlaps(at(8, 0), at(9, 0)), "disjoint before")
}
