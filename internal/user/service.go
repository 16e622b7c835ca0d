package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/conference-room-backend/internal/auth"
	"github.com/nekogravitycat/conference-room-backend/internal/notify"
	"github.com/nekogravitycat/conference-room-backend/internal/pkg/apperror"
)

var (
	ErrForbiddenApproval = apperror.New(403, "you can only approve accounts in your own organization")
)

// RegisterRequest holds the fields for a new account request.
type RegisterRequest struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	OrganizationID *string
}

// Service defines business logic related to users.
type Service interface {
	// Register creates an account in PENDING_APPROVAL status. The account
	// cannot log in until an admin approves it.
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// ApproveAccount activates a pending account. Permitted for a system
	// admin, or an admin of the account's organization.
	ApproveAccount(ctx context.Context, id string, actor *User) (*User, error)
	// RejectAccount rejects a pending account.
	RejectAccount(ctx context.Context, id string, actor *User) (*User, error)

	// ListPendingForOrganization returns accounts awaiting approval in the
	// given organization.
	ListPendingForOrganization(ctx context.Context, orgID string) ([]*User, error)

	// ListAdminsByOrganization and ListSystemAdmins back notification fan-out.
	ListAdminsByOrganization(ctx context.Context, orgID string) ([]*User, error)
	ListSystemAdmins(ctx context.Context) ([]*User, error)
}

type service struct {
	repo     Repository
	hasher   auth.PasswordHasher
	notifier notify.Notifier

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, notifier notify.Notifier) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		notifier:          notifier,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	cleanEmail := normalizeEmail(req.Email)
	if cleanEmail == "" {
		return nil, fmt.Errorf("email is required")
	}

	if len(req.Password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Email:          cleanEmail,
		PasswordHash:   hash,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Role:           RoleUser,
		OrganizationID: req.OrganizationID,
		AccountStatus:  AccountPendingApproval,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	notify.Dispatch(ctx, s.notifier, []notify.Message{{
		To:      u.Email,
		Subject: "Account Request Received",
		Body:    "Your account request has been received and is pending admin approval.",
	}})

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if u.AccountStatus == AccountPendingApproval {
		return nil, ErrPendingApproval
	}
	if u.AccountStatus == AccountRejected || !u.IsActive {
		return nil, ErrInactiveUser
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login_at (best effort; do not fail login if update fails).
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		logrus.WithError(err).Warn("failed to update last login time")
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// canManageAccount reports whether actor may approve or reject the account.
func canManageAccount(actor *User, target *User) bool {
	switch actor.Role {
	case RoleSystemAdmin:
		return true
	case RoleAdmin:
		return actor.OrganizationID != nil && target.OrganizationID != nil &&
			*actor.OrganizationID == *target.OrganizationID
	case RoleUser:
		return false
	}
	return false
}

func (s *service) ApproveAccount(ctx context.Context, id string, actor *User) (*User, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageAccount(actor, target) {
		return nil, ErrForbiddenApproval
	}
	if target.AccountStatus != AccountPendingApproval {
		return nil, ErrNotPendingApproval
	}

	target.AccountStatus = AccountActive
	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}

	notify.Dispatch(ctx, s.notifier, []notify.Message{{
		To:      target.Email,
		Subject: "Account Approved",
		Body:    "Your account has been approved. You can now log in.",
	}})

	return target, nil
}

func (s *service) RejectAccount(ctx context.Context, id string, actor *User) (*User, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageAccount(actor, target) {
		return nil, ErrForbiddenApproval
	}
	if target.AccountStatus != AccountPendingApproval {
		return nil, ErrNotPendingApproval
	}

	target.AccountStatus = AccountRejected
	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}

	notify.Dispatch(ctx, s.notifier, []notify.Message{{
		To:      target.Email,
		Subject: "Account Rejected",
		Body:    "Your account request has been rejected.",
	}})

	return target, nil
}

func (s *service) ListPendingForOrganization(ctx context.Context, orgID string) ([]*User, error) {
	users, _, err := s.repo.List(ctx, Filter{
		OrganizationID: orgID,
		AccountStatus:  AccountPendingApproval,
		PageSize:       100,
	})
	return users, err
}

func (s *service) ListAdminsByOrganization(ctx context.Context, orgID string) ([]*User, error) {
	return s.repo.ListByOrganizationAndRole(ctx, orgID, RoleAdmin)
}

func (s *service) ListSystemAdmins(ctx context.Context) ([]*User, error) {
	return s.repo.ListByRole(ctx, RoleSystemAdmin)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
