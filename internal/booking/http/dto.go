package http

import (
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/booking"
)

// BookingResponse is the shape of booking data in API responses.
type BookingResponse struct {
	ID     string `json:"id"`
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`

	RoomName         string `json:"room_name"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	UserName         string `json:"user_name"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	IsActive  bool      `json:"is_active"`

	Purpose       string `json:"purpose"`
	Notes         string `json:"notes,omitempty"`
	AttendeeCount int    `json:"attendee_count"`
	IsRecurring   bool   `json:"is_recurring"`

	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBookingResponse converts a domain Booking to its API shape.
func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		RoomID:           b.RoomID,
		UserID:           b.UserID,
		RoomName:         b.RoomName,
		OrganizationID:   b.RoomOrganizationID,
		OrganizationName: b.RoomOrganizationName,
		UserName:         b.UserName,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		Status:           string(b.Status),
		IsActive:         b.IsActive,
		Purpose:          b.Purpose,
		Notes:            b.Notes,
		AttendeeCount:    b.AttendeeCount,
		IsRecurring:      b.IsRecurring,
		ApprovedBy:       b.ApprovedBy,
		ApprovedAt:       b.ApprovedAt,
		RejectionReason:  b.RejectionReason,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// NewBookingListResponse converts a slice of bookings.
func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}

// ConflictResponse is the error payload when a create collides with an
// existing active booking. It names the other party's interval, identity and
// organization.
type ConflictResponse struct {
	Error       string    `json:"error"`
	BookingID   string    `json:"booking_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	BookedBy    string    `json:"booked_by"`
	BookedByOrg string    `json:"booked_by_organization"`
	ContactMail string    `json:"contact_email"`
}

// StateConflictResponse is the error payload for an illegal status
// transition.
type StateConflictResponse struct {
	Error         string `json:"error"`
	CurrentStatus string `json:"current_status"`
}

// CreateBookingRequest defines the payload to create a booking.
type CreateBookingRequest struct {
	RoomID        string    `json:"room_id" binding:"required,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	Purpose       string    `json:"purpose"`
	Notes         string    `json:"notes"`
	AttendeeCount int       `json:"attendee_count" binding:"omitempty,min=0"`
	IsRecurring   bool      `json:"is_recurring"`
}

// UpdateBookingRequest defines the payload to edit a booking's descriptive
// fields. Times and status cannot be changed.
type UpdateBookingRequest struct {
	Purpose       *string `json:"purpose"`
	Notes         *string `json:"notes"`
	AttendeeCount *int    `json:"attendee_count" binding:"omitempty,min=0"`
}

// RejectBookingRequest carries the optional rejection reason.
type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

// ListPendingRequest defines query parameters for the pending-approval list.
type ListPendingRequest struct {
	OrganizationID string `form:"organization_id" binding:"omitempty,uuid"`
}
