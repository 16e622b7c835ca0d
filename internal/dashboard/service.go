package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/booking"
	"github.com/nekogravitycat/conference-room-backend/internal/organization"
	"github.com/nekogravitycat/conference-room-backend/internal/room"
	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

// Summary is a role-dependent snapshot for the landing view. Only the
// fields relevant to the actor's role are populated.
type Summary struct {
	Role string

	// System admin.
	TotalOrganizations int
	TotalRooms         int
	OngoingBookings    int

	// System admin and admin.
	PendingBookings  int
	UpcomingBookings int

	// Admin.
	OrganizationRooms int

	// Regular user.
	MyUpcomingBookings []*booking.Booking
	MyHistoryCount     int
}

// Service builds the role-keyed dashboard summary.
type Service interface {
	SummaryFor(ctx context.Context, actor *user.User) (*Summary, error)
}

type service struct {
	bookings booking.Service
	rooms    room.Repository
	orgs     organization.Repository
}

// NewService creates a new dashboard Service.
func NewService(bookings booking.Service, rooms room.Repository, orgs organization.Repository) Service {
	return &service{
		bookings: bookings,
		rooms:    rooms,
		orgs:     orgs,
	}
}

// SummaryFor dispatches over the closed role set. Every role gets its own
// branch so a new role fails loudly instead of falling through.
func (s *service) SummaryFor(ctx context.Context, actor *user.User) (*Summary, error) {
	switch actor.Role {
	case user.RoleSystemAdmin:
		return s.systemAdminSummary(ctx)
	case user.RoleAdmin:
		return s.adminSummary(ctx, actor)
	case user.RoleUser:
		return s.userSummary(ctx, actor)
	}
	return nil, fmt.Errorf("unknown role %q", actor.Role)
}

func (s *service) systemAdminSummary(ctx context.Context) (*Summary, error) {
	now := time.Now()

	_, totalOrgs, err := s.orgs.List(ctx, organization.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}
	_, totalRooms, err := s.rooms.List(ctx, room.Filter{ActiveOnly: true, Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	upcoming, err := s.bookings.ListUpcomingGlobal(ctx, now)
	if err != nil {
		return nil, err
	}
	ongoing, err := s.bookings.ListOngoingGlobal(ctx, now)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, b := range upcoming {
		if b.Status == booking.StatusPending {
			pending++
		}
	}

	return &Summary{
		Role:               string(user.RoleSystemAdmin),
		TotalOrganizations: totalOrgs,
		TotalRooms:         totalRooms,
		PendingBookings:    pending,
		UpcomingBookings:   len(upcoming),
		OngoingBookings:    len(ongoing),
	}, nil
}

func (s *service) adminSummary(ctx context.Context, actor *user.User) (*Summary, error) {
	if actor.OrganizationID == nil {
		return nil, booking.ErrScopeRequired
	}
	orgID := *actor.OrganizationID

	_, totalRooms, err := s.rooms.List(ctx, room.Filter{
		OrganizationID: orgID,
		ActiveOnly:     true,
		Page:           1,
		PageSize:       1,
	})
	if err != nil {
		return nil, err
	}

	pending, err := s.bookings.ListPendingForOrganization(ctx, orgID, actor)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Role:              string(user.RoleAdmin),
		OrganizationRooms: totalRooms,
		PendingBookings:   len(pending),
	}, nil
}

func (s *service) userSummary(ctx context.Context, actor *user.User) (*Summary, error) {
	upcoming, err := s.bookings.ListUpcomingForUser(ctx, actor.ID, time.Now())
	if err != nil {
		return nil, err
	}
	history, err := s.bookings.ListHistoryForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Role:               string(user.RoleUser),
		MyUpcomingBookings: upcoming,
		MyHistoryCount:     len(history),
	}, nil
}
