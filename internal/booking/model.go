package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/pkg/apperror"
)

// Booking represents a reservation of a room for a time interval.
// Joined display fields (room name, owner identity, organization name) are
// populated by the repository; they are never written back.
type Booking struct {
	ID     string // UUID
	RoomID string
	UserID string

	StartTime time.Time
	EndTime   time.Time

	Status Status

	// IsActive is independent of Status: it marks whether the booking still
	// counts for display, as opposed to history.
	IsActive bool

	Purpose       string
	Notes         string
	AttendeeCount int
	IsRecurring   bool

	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields.
	RoomName             string
	RoomOrganizationID   string
	RoomOrganizationName string
	UserName             string
	UserEmail            string
}

// Overlaps reports whether the booking's interval strictly overlaps
// [start, end). Touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// Filter defines filter options for listing bookings.
type Filter struct {
	UserID             string
	RoomID             string
	RoomOrganizationID string
	Statuses           []Status

	StartBefore *time.Time
	StartAfter  *time.Time

	// OngoingAt selects bookings whose interval contains the given instant.
	OngoingAt *time.Time

	ActiveOnly bool

	// HistoryOnly selects bookings that no longer count for display:
	// inactive ones, or completed ones.
	HistoryOnly bool
}

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrMissingTimes     = apperror.New(http.StatusBadRequest, "start time and end time are required")
	ErrPastTime         = apperror.New(http.StatusBadRequest, "booking times cannot be in the past")
	ErrInvalidInterval  = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrInvalidAttendees = apperror.New(http.StatusBadRequest, "attendee count must be positive")
	ErrDuplicateRequest = apperror.New(http.StatusConflict, "you already have a booking request for this room during this time")
	ErrForbidden        = apperror.New(http.StatusForbidden, "you are not allowed to perform this action on the booking")
	ErrScopeRequired    = apperror.New(http.StatusForbidden, "this role requires an organization membership")
)

// ConflictError is returned when a candidate interval overlaps an active
// booking held by another user. It discloses the other party's identity and
// organization to the requester.
type ConflictError struct {
	BookingID string
	StartTime time.Time
	EndTime   time.Time
	OwnerName string
	OwnerMail string
	OrgName   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room is already booked from %s to %s by %s (%s, %s)",
		e.StartTime.Format(timeLayout), e.EndTime.Format(timeLayout),
		e.OwnerName, e.OwnerMail, e.OrgName)
}

// StateConflictError is returned when a transition is illegal from the
// booking's current status.
type StateConflictError struct {
	BookingID string
	Current   Status
	Event     string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s a booking in status %s", e.Event, e.Current)
}

const timeLayout = "2006-01-02 15:04"
