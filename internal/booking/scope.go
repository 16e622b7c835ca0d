package booking

import (
	"fmt"

	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

// ScopeKind tags the visibility variants for list operations.
type ScopeKind int

const (
	// ScopeAll sees every booking (system admins).
	ScopeAll ScopeKind = iota
	// ScopeOrganization sees bookings whose room belongs to one organization
	// (admins).
	ScopeOrganization
	// ScopeOwn sees only bookings the actor created (regular users).
	ScopeOwn
)

// Scope is the resolved visibility for an actor.
type Scope struct {
	Kind           ScopeKind
	OrganizationID string
	UserID         string
}

// ScopeFor computes the visibility scope for the actor's role. An admin
// without an organization cannot be scoped and gets ErrScopeRequired.
func ScopeFor(actor *user.User) (Scope, error) {
	switch actor.Role {
	case user.RoleSystemAdmin:
		return Scope{Kind: ScopeAll}, nil
	case user.RoleAdmin:
		if actor.OrganizationID == nil {
			return Scope{}, ErrScopeRequired
		}
		return Scope{Kind: ScopeOrganization, OrganizationID: *actor.OrganizationID}, nil
	case user.RoleUser:
		return Scope{Kind: ScopeOwn, UserID: actor.ID}, nil
	}
	return Scope{}, fmt.Errorf("unknown role %q", actor.Role)
}

// Filter translates the scope into repository filter fields.
func (s Scope) Filter() Filter {
	switch s.Kind {
	case ScopeOrganization:
		return Filter{RoomOrganizationID: s.OrganizationID}
	case ScopeOwn:
		return Filter{UserID: s.UserID}
	}
	return Filter{}
}

// Contains reports whether the booking falls inside the scope.
func (s Scope) Contains(b *Booking) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeOrganization:
		return b.RoomOrganizationID == s.OrganizationID
	case ScopeOwn:
		return b.UserID == s.UserID
	}
	return false
}

// CanModerate reports whether the actor may approve or reject the booking:
// system admins always, admins only for rooms of their own organization.
func CanModerate(actor *user.User, b *Booking) bool {
	switch actor.Role {
	case user.RoleSystemAdmin:
		return true
	case user.RoleAdmin:
		return actor.OrganizationID != nil && *actor.OrganizationID == b.RoomOrganizationID
	}
	return false
}

// CanCancel reports whether the actor may cancel the booking. Cancellation
// is owner-only, regardless of role.
func CanCancel(actor *user.User, b *Booking) bool {
	return actor.ID == b.UserID
}

// CanUpdate reports whether the actor may edit the booking's descriptive
// fields. Owner-only, like cancellation.
func CanUpdate(actor *user.User, b *Booking) bool {
	return actor.ID == b.UserID
}
