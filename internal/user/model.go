package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrPendingApproval    = errors.New("account is pending admin approval")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrNotPendingApproval = errors.New("account is not pending approval")
)

// Role is the closed set of user roles. Authorization scopes are computed by
// exhaustive switches over this type, never by string comparison elsewhere.
type Role string

const (
	RoleUser        Role = "USER"
	RoleAdmin       Role = "ADMIN"
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSystemAdmin:
		return true
	}
	return false
}

// AccountStatus describes the registration approval state of an account.
type AccountStatus string

const (
	AccountPendingApproval AccountStatus = "PENDING_APPROVAL"
	AccountActive          AccountStatus = "ACTIVE"
	AccountRejected        AccountStatus = "REJECTED"
)

// User represents a user in the system.
// ADMIN and USER accounts belong to at most one organization;
// SYSTEM_ADMIN accounts are organization-independent.
type User struct {
	ID               string // UUID
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	Role             Role
	OrganizationID   *string
	OrganizationName *string
	AccountStatus    AccountStatus
	IsActive         bool
	CreatedAt        time.Time
	LastLoginAt      *time.Time
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Filter defines filter options for listing users.
type Filter struct {
	OrganizationID string
	Role           Role
	AccountStatus  AccountStatus

	Page     int
	PageSize int
}
