package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

func strPtr(s string) *string { return &s }

func TestScopeFor(t *testing.T) {
	t.Run("system admin sees everything", func(t *testing.T) {
		scope, err := ScopeFor(&user.User{ID: "sa", Role: user.RoleSystemAdmin})
		require.NoError(t, err)
		assert.Equal(t, ScopeAll, scope.Kind)
	})

	t.Run("admin is scoped to their organization", func(t *testing.T) {
		scope, err := ScopeFor(&user.User{
			ID:             "a1",
			Role:           user.RoleAdmin,
			OrganizationID: strPtr("org-a"),
		})
		require.NoError(t, err)
		assert.Equal(t, ScopeOrganization, scope.Kind)
		assert.Equal(t, "org-a", scope.OrganizationID)
	})

	t.Run("admin without organization fails", func(t *testing.T) {
		_, err := ScopeFor(&user.User{ID: "a2", Role: user.RoleAdmin})
		assert.ErrorIs(t, err, ErrScopeRequired)
	})

	t.Run("user sees only their own bookings", func(t *testing.T) {
		scope, err := ScopeFor(&user.User{ID: "u1", Role: user.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, ScopeOwn, scope.Kind)
		assert.Equal(t, "u1", scope.UserID)
	})

	t.Run("unknown role fails", func(t *testing.T) {
		_, err := ScopeFor(&user.User{ID: "x", Role: user.Role("SUPERVISOR")})
		assert.Error(t, err)
	})
}

func TestScopeContains(t *testing.T) {
	ownBooking := &Booking{ID: "b1", UserID: "u1", RoomOrganizationID: "org-a"}
	otherBooking := &Booking{ID: "b2", UserID: "u2", RoomOrganizationID: "org-b"}

	all := Scope{Kind: ScopeAll}
	assert.True(t, all.Contains(ownBooking))
	assert.True(t, all.Contains(otherBooking))

	orgScoped := Scope{Kind: ScopeOrganization, OrganizationID: "org-a"}
	assert.True(t, orgScoped.Contains(ownBooking))
	assert.False(t, orgScoped.Contains(otherBooking))

	own := Scope{Kind: ScopeOwn, UserID: "u1"}
	assert.True(t, own.Contains(ownBooking))
	assert.False(t, own.Contains(otherBooking))
}

func TestCanModerate(t *testing.T) {
	b := &Booking{ID: "b1", UserID: "u1", RoomOrganizationID: "org-a"}

	sysAdmin := &user.User{ID: "sa", Role: user.RoleSystemAdmin}
	sameOrgAdmin := &user.User{ID: "a1", Role: user.RoleAdmin, OrganizationID: strPtr("org-a")}
	otherOrgAdmin := &user.User{ID: "a2", Role: user.RoleAdmin, OrganizationID: strPtr("org-b")}
	orglessAdmin := &user.User{ID: "a3", Role: user.RoleAdmin}
	owner := &user.User{ID: "u1", Role: user.RoleUser}

	assert.True(t, CanModerate(sysAdmin, b))
	assert.True(t, CanModerate(sameOrgAdmin, b))
	assert.False(t, CanModerate(otherOrgAdmin, b))
	assert.False(t, CanModerate(orglessAdmin, b))
	assert.False(t, CanModerate(owner, b), "owning a booking grants no moderation rights")
}

func TestCanCancel(t *testing.T) {
	b := &Booking{ID: "b1", UserID: "u1", RoomOrganizationID: "org-a"}

	assert.True(t, CanCancel(&user.User{ID: "u1", Role: user.RoleUser}, b))
	assert.False(t, CanCancel(&user.User{ID: "u2", Role: user.RoleUser}, b))

	// Cancellation is ownership-based, not role-based.
	assert.False(t, CanCancel(&user.User{ID: "sa", Role: user.RoleSystemAdmin}, b))
	assert.False(t, CanCancel(&user.User{ID: "a1", Role: user.RoleAdmin, OrganizationID: strPtr("org-a")}, b))
}
