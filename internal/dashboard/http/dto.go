package http

import (
	bookinghttp "github.com/nekogravitycat/conference-room-backend/internal/booking/http"
	"github.com/nekogravitycat/conference-room-backend/internal/dashboard"
)

// SummaryResponse is the role-dependent dashboard payload. Counts not
// relevant to the actor's role are omitted.
type SummaryResponse struct {
	Role string `json:"role"`

	TotalOrganizations *int `json:"total_organizations,omitempty"`
	TotalRooms         *int `json:"total_rooms,omitempty"`
	OngoingBookings    *int `json:"ongoing_bookings,omitempty"`
	PendingBookings    *int `json:"pending_bookings,omitempty"`
	UpcomingBookings   *int `json:"upcoming_bookings,omitempty"`
	OrganizationRooms  *int `json:"organization_rooms,omitempty"`

	MyUpcomingBookings []bookinghttp.BookingResponse `json:"my_upcoming_bookings,omitempty"`
	MyHistoryCount     *int                          `json:"my_history_count,omitempty"`
}

// NewSummaryResponse converts a domain Summary to its API shape.
func NewSummaryResponse(s *dashboard.Summary) SummaryResponse {
	resp := SummaryResponse{Role: s.Role}

	switch s.Role {
	case "SYSTEM_ADMIN":
		resp.TotalOrganizations = &s.TotalOrganizations
		resp.TotalRooms = &s.TotalRooms
		resp.OngoingBookings = &s.OngoingBookings
		resp.PendingBookings = &s.PendingBookings
		resp.UpcomingBookings = &s.UpcomingBookings
	case "ADMIN":
		resp.OrganizationRooms = &s.OrganizationRooms
		resp.PendingBookings = &s.PendingBookings
	case "USER":
		resp.MyUpcomingBookings = bookinghttp.NewBookingListResponse(s.MyUpcomingBookings)
		resp.MyHistoryCount = &s.MyHistoryCount
	}
	return resp
}
