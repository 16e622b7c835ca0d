package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/conference-room-backend/internal/notify"
	"github.com/nekogravitycat/conference-room-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

// CreateRequest holds fields for creating a booking.
type CreateRequest struct {
	RoomID        string
	StartTime     time.Time
	EndTime       time.Time
	Purpose       string
	Notes         string
	AttendeeCount int
	IsRecurring   bool
}

// UpdateRequest holds the descriptive fields the owner may edit. Times and
// status are not editable.
type UpdateRequest struct {
	Purpose       *string
	Notes         *string
	AttendeeCount *int
}

// Service composes the conflict detector, state machine, scope resolver and
// sweeper into the booking operations the API layer calls.
type Service interface {
	// Create validates the request, checks conflicts and creates a PENDING
	// booking. The owner, the room organization's admins and all system
	// admins are notified.
	Create(ctx context.Context, req CreateRequest, actor *user.User) (*Booking, error)

	// GetByID returns the booking if it falls inside the actor's scope.
	GetByID(ctx context.Context, id string, actor *user.User) (*Booking, error)

	Approve(ctx context.Context, id string, actor *user.User) (*Booking, error)
	Reject(ctx context.Context, id, reason string, actor *user.User) (*Booking, error)

	// Cancel is owner-only and legal from PENDING or APPROVED.
	Cancel(ctx context.Context, id string, actor *user.User) (*Booking, error)

	// Update edits descriptive fields. Owner-only, PENDING or APPROVED only.
	Update(ctx context.Context, id string, req UpdateRequest, actor *user.User) (*Booking, error)

	// ListForActor returns bookings visible to the actor per their role
	// scope, deduplicated by booking id.
	ListForActor(ctx context.Context, actor *user.User) ([]*Booking, error)

	ListPendingForOrganization(ctx context.Context, orgID string, actor *user.User) ([]*Booking, error)
	ListUpcomingForUser(ctx context.Context, userID string, now time.Time) ([]*Booking, error)
	ListUpcomingGlobal(ctx context.Context, now time.Time) ([]*Booking, error)
	ListOngoingGlobal(ctx context.Context, now time.Time) ([]*Booking, error)
	ListHistoryForUser(ctx context.Context, userID string) ([]*Booking, error)

	// SweepExpired auto-rejects PENDING bookings whose start time has
	// passed. Idempotent: concurrent or repeated sweeps flip each booking
	// at most once. Returns the number of bookings rejected.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo     Repository
	users    user.Service
	notifier notify.Notifier

	now func() time.Time
}

// NewService creates a new booking Service.
func NewService(repo Repository, users user.Service, notifier notify.Notifier) Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest, actor *user.User) (*Booking, error) {
	// Validation order is fixed: missing times, past times, inverted
	// interval, room existence, conflicts. The first failing check wins.
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, ErrMissingTimes
	}
	now := s.now()
	if req.StartTime.Before(now) || req.EndTime.Before(now) {
		return nil, ErrPastTime
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidInterval
	}
	if req.AttendeeCount < 0 {
		return nil, ErrInvalidAttendees
	}

	b := &Booking{
		RoomID:        req.RoomID,
		UserID:        actor.ID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        StatusPending,
		IsActive:      true,
		Purpose:       req.Purpose,
		Notes:         req.Notes,
		AttendeeCount: req.AttendeeCount,
		IsRecurring:   req.IsRecurring,
	}

	conflict, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		metrics.BookingConflicts.Inc()
		if conflict.UserID == actor.ID {
			return nil, ErrDuplicateRequest
		}
		return nil, &ConflictError{
			BookingID: conflict.ID,
			StartTime: conflict.StartTime,
			EndTime:   conflict.EndTime,
			OwnerName: conflict.UserName,
			OwnerMail: conflict.UserEmail,
			OrgName:   conflict.RoomOrganizationName,
		}
	}
	metrics.BookingTransitions.WithLabelValues("create").Inc()

	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		// The row exists; only the joined display fields are missing.
		logrus.WithError(err).WithField("booking_id", b.ID).
			Warn("reload created booking failed")
		created = b
	}

	notify.Dispatch(ctx, s.notifier, s.createMessages(ctx, created, actor))
	return created, nil
}

// createMessages builds the creation fan-out: the owner, the room
// organization's admins, and every system admin.
func (s *service) createMessages(ctx context.Context, b *Booking, actor *user.User) []notify.Message {
	msgs := []notify.Message{b.requestedMessage()}
	seen := map[string]bool{actor.Email: true}

	admins, err := s.users.ListAdminsByOrganization(ctx, b.RoomOrganizationID)
	if err != nil {
		logrus.WithError(err).Warn("list organization admins for notification failed")
	}
	sysAdmins, err := s.users.ListSystemAdmins(ctx)
	if err != nil {
		logrus.WithError(err).Warn("list system admins for notification failed")
	}

	for _, a := range append(admins, sysAdmins...) {
		if seen[a.Email] {
			continue
		}
		seen[a.Email] = true
		msgs = append(msgs, b.pendingApprovalMessage(a.Email))
	}
	return msgs
}

func (s *service) GetByID(ctx context.Context, id string, actor *user.User) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	if !scope.Contains(b) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *service) Approve(ctx context.Context, id string, actor *user.User) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModerate(actor, b) {
		return nil, ErrForbidden
	}

	msgs, err := b.Approve(actor.ID, s.now())
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.Approve(ctx, id, actor.ID, *b.ApprovedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.staleTransition(ctx, id, "approve")
	}

	metrics.BookingTransitions.WithLabelValues("approve").Inc()
	notify.Dispatch(ctx, s.notifier, msgs)
	return b, nil
}

func (s *service) Reject(ctx context.Context, id, reason string, actor *user.User) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModerate(actor, b) {
		return nil, ErrForbidden
	}

	msgs, err := b.Reject(reason, s.now())
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.Reject(ctx, id, b.RejectionReason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.staleTransition(ctx, id, "reject")
	}

	metrics.BookingTransitions.WithLabelValues("reject").Inc()
	notify.Dispatch(ctx, s.notifier, msgs)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, actor *user.User) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanCancel(actor, b) {
		return nil, ErrForbidden
	}

	msgs, err := b.Cancel(s.now())
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.staleTransition(ctx, id, "cancel")
	}

	metrics.BookingTransitions.WithLabelValues("cancel").Inc()
	notify.Dispatch(ctx, s.notifier, msgs)
	return b, nil
}

// staleTransition reports the status that beat a guarded update. The guard
// failing means a concurrent transition won the race.
func (s *service) staleTransition(ctx context.Context, id, event string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("booking changed concurrently: %w", err)
	}
	return &StateConflictError{BookingID: id, Current: current.Status, Event: event}
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actor *user.User) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanUpdate(actor, b) {
		return nil, ErrForbidden
	}
	if b.Status != StatusPending && b.Status != StatusApproved {
		return nil, &StateConflictError{BookingID: id, Current: b.Status, Event: "update"}
	}

	if req.Purpose != nil {
		b.Purpose = *req.Purpose
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
	}
	if req.AttendeeCount != nil {
		if *req.AttendeeCount < 0 {
			return nil, ErrInvalidAttendees
		}
		b.AttendeeCount = *req.AttendeeCount
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListForActor(ctx context.Context, actor *user.User) ([]*Booking, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}

	filter := scope.Filter()
	filter.ActiveOnly = true
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dedupeByID(bookings), nil
}

func (s *service) ListPendingForOrganization(ctx context.Context, orgID string, actor *user.User) ([]*Booking, error) {
	switch actor.Role {
	case user.RoleSystemAdmin:
	case user.RoleAdmin:
		if actor.OrganizationID == nil {
			return nil, ErrScopeRequired
		}
		if *actor.OrganizationID != orgID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	bookings, err := s.repo.List(ctx, Filter{
		RoomOrganizationID: orgID,
		Statuses:           []Status{StatusPending},
	})
	if err != nil {
		return nil, err
	}
	return dedupeByID(bookings), nil
}

func (s *service) ListUpcomingForUser(ctx context.Context, userID string, now time.Time) ([]*Booking, error) {
	return s.repo.List(ctx, Filter{
		UserID:     userID,
		Statuses:   []Status{StatusPending, StatusApproved},
		StartAfter: &now,
		ActiveOnly: true,
	})
}

func (s *service) ListUpcomingGlobal(ctx context.Context, now time.Time) ([]*Booking, error) {
	return s.repo.List(ctx, Filter{
		Statuses:   []Status{StatusPending, StatusApproved},
		StartAfter: &now,
		ActiveOnly: true,
	})
}

func (s *service) ListOngoingGlobal(ctx context.Context, now time.Time) ([]*Booking, error) {
	return s.repo.List(ctx, Filter{
		Statuses:  []Status{StatusApproved},
		OngoingAt: &now,
	})
}

func (s *service) ListHistoryForUser(ctx context.Context, userID string) ([]*Booking, error) {
	return s.repo.List(ctx, Filter{
		UserID:      userID,
		HistoryOnly: true,
	})
}

func (s *service) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	metrics.SweepRuns.Inc()

	expired, err := s.repo.List(ctx, Filter{
		Statuses:    []Status{StatusPending},
		StartBefore: &now,
	})
	if err != nil {
		return 0, fmt.Errorf("list expired pending bookings failed: %w", err)
	}

	swept := 0
	for _, b := range expired {
		msgs, err := b.Expire(now)
		if err != nil {
			continue
		}

		// Guarded flip: a booking approved, rejected or cancelled between
		// the scan and this update is left alone.
		ok, err := s.repo.ExpirePending(ctx, b.ID, expiredReason)
		if err != nil {
			logrus.WithError(err).WithField("booking_id", b.ID).
				Error("expire pending booking failed")
			continue
		}
		if !ok {
			continue
		}

		swept++
		metrics.SweepExpired.Inc()
		metrics.BookingTransitions.WithLabelValues("expire").Inc()
		notify.Dispatch(ctx, s.notifier, msgs)
	}
	return swept, nil
}

func dedupeByID(bookings []*Booking) []*Booking {
	seen := make(map[string]bool, len(bookings))
	out := bookings[:0]
	for _, b := range bookings {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		out = append(out, b)
	}
	return out
}
