package user

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/conference-room-backend/internal/notify"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return ErrNotFound
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*User
	for _, u := range r.users {
		if filter.OrganizationID != "" &&
			(u.OrganizationID == nil || *u.OrganizationID != filter.OrganizationID) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.AccountStatus != "" && u.AccountStatus != filter.AccountStatus {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (r *fakeUserRepo) ListByOrganizationAndRole(ctx context.Context, orgID string, role Role) ([]*User, error) {
	users, _, err := r.List(ctx, Filter{OrganizationID: orgID, Role: role})
	return users, err
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role Role) ([]*User, error) {
	users, _, err := r.List(ctx, Filter{Role: role})
	return users, err
}

// plainHasher avoids bcrypt cost in unit tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *captureNotifier) Notify(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (Service, *fakeUserRepo, *captureNotifier) {
	t.Helper()
	repo := newFakeUserRepo()
	notifier := &captureNotifier{}
	return NewService(repo, plainHasher{}, notifier), repo, notifier
}

func register(t *testing.T, svc Service, email string, orgID *string) *User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:          email,
		Password:       "supersecret",
		FirstName:      "Test",
		LastName:       "User",
		OrganizationID: orgID,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("new accounts await approval", func(t *testing.T) {
		svc, _, notifier := newTestService(t)
		u := register(t, svc, "new@example.com", strPtr("org-a"))

		assert.Equal(t, AccountPendingApproval, u.AccountStatus)
		assert.Equal(t, RoleUser, u.Role)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "new@example.com", notifier.sent[0].To)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		register(t, svc, "dup@example.com", nil)

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "dup@example.com",
			Password: "supersecret",
		})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "short@example.com",
			Password: "tiny",
		})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("pending account cannot log in", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		register(t, svc, "pending@example.com", nil)

		_, err := svc.Login(ctx, "pending@example.com", "supersecret")
		assert.ErrorIs(t, err, ErrPendingApproval)
	})

	t.Run("approved account logs in", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		u := register(t, svc, "active@example.com", nil)

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		stored.AccountStatus = AccountActive
		require.NoError(t, repo.Update(ctx, stored))

		got, err := svc.Login(ctx, "active@example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		u := register(t, svc, "victim@example.com", nil)
		stored, _ := repo.GetByID(ctx, u.ID)
		stored.AccountStatus = AccountActive
		require.NoError(t, repo.Update(ctx, stored))

		_, err := svc.Login(ctx, "victim@example.com", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails like a wrong password", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAccountApproval(t *testing.T) {
	ctx := context.Background()

	sysAdmin := &User{ID: "sa", Role: RoleSystemAdmin}
	orgAAdmin := &User{ID: "aa", Role: RoleAdmin, OrganizationID: strPtr("org-a")}
	orgBAdmin := &User{ID: "ab", Role: RoleAdmin, OrganizationID: strPtr("org-b")}

	t.Run("same-org admin approves and the account activates", func(t *testing.T) {
		svc, _, notifier := newTestService(t)
		u := register(t, svc, "joiner@example.com", strPtr("org-a"))

		approved, err := svc.ApproveAccount(ctx, u.ID, orgAAdmin)
		require.NoError(t, err)
		assert.Equal(t, AccountActive, approved.AccountStatus)

		last := notifier.sent[len(notifier.sent)-1]
		assert.Equal(t, "joiner@example.com", last.To)
		assert.Equal(t, "Account Approved", last.Subject)
	})

	t.Run("admin of another organization is forbidden", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		u := register(t, svc, "joiner@example.com", strPtr("org-a"))

		_, err := svc.ApproveAccount(ctx, u.ID, orgBAdmin)
		assert.ErrorIs(t, err, ErrForbiddenApproval)
	})

	t.Run("system admin approves anyone", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		u := register(t, svc, "joiner@example.com", strPtr("org-a"))

		_, err := svc.ApproveAccount(ctx, u.ID, sysAdmin)
		assert.NoError(t, err)
	})

	t.Run("already-decided accounts cannot be re-decided", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		u := register(t, svc, "joiner@example.com", strPtr("org-a"))

		_, err := svc.ApproveAccount(ctx, u.ID, sysAdmin)
		require.NoError(t, err)

		_, err = svc.RejectAccount(ctx, u.ID, sysAdmin)
		assert.ErrorIs(t, err, ErrNotPendingApproval)
	})

	t.Run("rejected account cannot log in", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		u := register(t, svc, "denied@example.com", strPtr("org-a"))

		_, err := svc.RejectAccount(ctx, u.ID, sysAdmin)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "denied@example.com", "supersecret")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}
