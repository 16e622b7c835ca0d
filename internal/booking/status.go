package booking

import (
	"fmt"
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/notify"
)

// Status is a booking's position in its lifecycle. Transitions happen only
// through the named transition methods below; callers never assign a status
// directly.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further status change is permitted from s.
// APPROVED is not terminal: the owner may still cancel, and a completed
// meeting may be marked COMPLETED.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status change from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled || next == StatusCompleted
	}
	return false
}

// Transition methods mutate the in-memory booking and return the notification
// intents the transition triggers. Persistence uses guarded updates keyed on
// the prior status, so a concurrent transition surfaces as zero rows affected
// rather than a lost update.

// Approve moves a PENDING booking to APPROVED.
func (b *Booking) Approve(approverID string, now time.Time) ([]notify.Message, error) {
	if !b.Status.CanTransitionTo(StatusApproved) {
		return nil, &StateConflictError{BookingID: b.ID, Current: b.Status, Event: "approve"}
	}
	b.Status = StatusApproved
	b.ApprovedBy = &approverID
	b.ApprovedAt = &now
	return []notify.Message{b.approvedMessage()}, nil
}

// Reject moves a PENDING booking to REJECTED with an optional reason.
func (b *Booking) Reject(reason string, now time.Time) ([]notify.Message, error) {
	if !b.Status.CanTransitionTo(StatusRejected) {
		return nil, &StateConflictError{BookingID: b.ID, Current: b.Status, Event: "reject"}
	}
	b.Status = StatusRejected
	if reason != "" {
		b.RejectionReason = &reason
	}
	return []notify.Message{b.rejectedMessage(reason)}, nil
}

// Cancel moves a PENDING or APPROVED booking to CANCELLED.
func (b *Booking) Cancel(now time.Time) ([]notify.Message, error) {
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return nil, &StateConflictError{BookingID: b.ID, Current: b.Status, Event: "cancel"}
	}
	b.Status = StatusCancelled
	return nil, nil
}

// Expire auto-rejects a PENDING booking whose start time has passed.
func (b *Booking) Expire(now time.Time) ([]notify.Message, error) {
	if b.Status != StatusPending {
		return nil, &StateConflictError{BookingID: b.ID, Current: b.Status, Event: "expire"}
	}
	if !now.After(b.StartTime) {
		return nil, fmt.Errorf("booking %s has not started yet", b.ID)
	}
	reason := expiredReason
	b.Status = StatusRejected
	b.RejectionReason = &reason
	return []notify.Message{b.expiredMessage()}, nil
}

const expiredReason = "automatically rejected: not approved before the start time"

func (b *Booking) interval() string {
	return b.StartTime.Format(timeLayout) + " to " + b.EndTime.Format(timeLayout)
}

func (b *Booking) requestedMessage() notify.Message {
	return notify.Message{
		To:      b.UserEmail,
		Subject: "Booking Request Received",
		Body: fmt.Sprintf("Your booking request for room %q from %s has been received and is pending approval.",
			b.RoomName, b.interval()),
	}
}

func (b *Booking) pendingApprovalMessage(recipient string) notify.Message {
	return notify.Message{
		To:      recipient,
		Subject: "New Booking Request Pending Approval",
		Body: fmt.Sprintf("%s requested room %q from %s. Please approve or reject the request.",
			b.UserName, b.RoomName, b.interval()),
	}
}

func (b *Booking) approvedMessage() notify.Message {
	return notify.Message{
		To:      b.UserEmail,
		Subject: "Booking Approved",
		Body: fmt.Sprintf("Your booking for room %q from %s has been approved.",
			b.RoomName, b.interval()),
	}
}

func (b *Booking) rejectedMessage(reason string) notify.Message {
	body := fmt.Sprintf("Your booking for room %q from %s has been rejected.",
		b.RoomName, b.interval())
	if reason != "" {
		body += " Reason: " + reason
	}
	return notify.Message{
		To:      b.UserEmail,
		Subject: "Booking Rejected",
		Body:    body,
	}
}

func (b *Booking) expiredMessage() notify.Message {
	return notify.Message{
		To:      b.UserEmail,
		Subject: "Booking Request Expired",
		Body: fmt.Sprintf("Your booking request for room %q from %s was automatically rejected because it was not approved before the start time.",
			b.RoomName, b.interval()),
	}
}
