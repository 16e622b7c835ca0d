package room

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

type fakeRoomRepo struct {
	mu    sync.Mutex
	seq   int
	rooms map[string]*Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*Room)}
}

func (r *fakeRoomRepo) Create(ctx context.Context, rm *Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rooms {
		if existing.OrganizationID == rm.OrganizationID && existing.Name == rm.Name {
			return ErrNameTaken
		}
	}
	r.seq++
	rm.ID = fmt.Sprintf("room-%d", r.seq)
	copied := *rm
	r.rooms[rm.ID] = &copied
	return nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id string) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *rm
	return &copied, nil
}

func (r *fakeRoomRepo) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Room
	for _, rm := range r.rooms {
		if filter.OrganizationID != "" && rm.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.MinCapacity > 0 && rm.Capacity < filter.MinCapacity {
			continue
		}
		if filter.ActiveOnly && !rm.IsActive {
			continue
		}
		copied := *rm
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, rm *Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[rm.ID]; !ok {
		return ErrNotFound
	}
	copied := *rm
	r.rooms[rm.ID] = &copied
	return nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (Service, *fakeRoomRepo) {
	t.Helper()
	repo := newFakeRoomRepo()
	// Image handling is exercised separately; services under test here never
	// reach the storage layer.
	return NewService(repo, nil, nil), repo
}

func seedRoom(t *testing.T, repo *fakeRoomRepo, name, orgID string, level AccessLevel, allowed []string) *Room {
	t.Helper()
	rm := &Room{
		OrganizationID:         orgID,
		Name:                   name,
		Capacity:               10,
		AccessLevel:            level,
		AllowedOrganizationIDs: allowed,
		IsActive:               true,
	}
	require.NoError(t, repo.Create(context.Background(), rm))
	return rm
}

func TestCreateRoom(t *testing.T) {
	ctx := context.Background()
	sysAdmin := &user.User{ID: "sa", Role: user.RoleSystemAdmin}
	orgAAdmin := &user.User{ID: "aa", Role: user.RoleAdmin, OrganizationID: strPtr("org-a")}

	t.Run("admin creates a room in their organization", func(t *testing.T) {
		svc, _ := newTestService(t)
		rm, err := svc.Create(ctx, CreateRequest{
			OrganizationID: "org-a",
			Name:           "Boardroom",
			Capacity:       12,
		}, orgAAdmin)
		require.NoError(t, err)
		assert.Equal(t, AccessPublic, rm.AccessLevel, "rooms default to public access")
		assert.True(t, rm.IsActive)
	})

	t.Run("admin cannot create a room elsewhere", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, CreateRequest{
			OrganizationID: "org-b",
			Name:           "Boardroom",
			Capacity:       12,
		}, orgAAdmin)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("system admin creates rooms anywhere", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, CreateRequest{
			OrganizationID: "org-b",
			Name:           "Boardroom",
			Capacity:       12,
		}, sysAdmin)
		assert.NoError(t, err)
	})

	t.Run("capacity must be positive", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, CreateRequest{
			OrganizationID: "org-a",
			Name:           "Closet",
			Capacity:       0,
		}, orgAAdmin)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	})
}

func TestListAccessible(t *testing.T) {
	ctx := context.Background()

	svc, repo := newTestService(t)
	public := seedRoom(t, repo, "Lobby", "org-a", AccessPublic, nil)
	ownOnly := seedRoom(t, repo, "War Room", "org-a", AccessRestricted, nil)
	shared := seedRoom(t, repo, "Shared Lab", "org-b", AccessRestricted, []string{"org-a"})
	private := seedRoom(t, repo, "Vault", "org-b", AccessRestricted, nil)

	roomIDs := func(rooms []*Room) []string {
		ids := make([]string, len(rooms))
		for i, rm := range rooms {
			ids[i] = rm.ID
		}
		return ids
	}

	t.Run("org member sees public, own-org and allow-listed rooms", func(t *testing.T) {
		actor := &user.User{ID: "u1", Role: user.RoleUser, OrganizationID: strPtr("org-a")}
		rooms, _, err := svc.ListAccessible(ctx, Filter{ActiveOnly: true}, actor)
		require.NoError(t, err)

		ids := roomIDs(rooms)
		assert.Contains(t, ids, public.ID)
		assert.Contains(t, ids, ownOnly.ID)
		assert.Contains(t, ids, shared.ID)
		assert.NotContains(t, ids, private.ID)
	})

	t.Run("user without organization sees only public rooms", func(t *testing.T) {
		actor := &user.User{ID: "u2", Role: user.RoleUser}
		rooms, _, err := svc.ListAccessible(ctx, Filter{ActiveOnly: true}, actor)
		require.NoError(t, err)
		assert.Equal(t, []string{public.ID}, roomIDs(rooms))
	})

	t.Run("system admin sees everything", func(t *testing.T) {
		actor := &user.User{ID: "sa", Role: user.RoleSystemAdmin}
		rooms, _, err := svc.ListAccessible(ctx, Filter{ActiveOnly: true}, actor)
		require.NoError(t, err)
		assert.Len(t, rooms, 4)
	})
}

func TestUpdateAccess(t *testing.T) {
	ctx := context.Background()
	orgAAdmin := &user.User{ID: "aa", Role: user.RoleAdmin, OrganizationID: strPtr("org-a")}

	svc, repo := newTestService(t)
	rm := seedRoom(t, repo, "Lab", "org-a", AccessRestricted, []string{"org-b"})

	t.Run("switching to public clears the allow-list", func(t *testing.T) {
		updated, err := svc.UpdateAccess(ctx, rm.ID, AccessUpdateRequest{
			AccessLevel: AccessPublic,
		}, orgAAdmin)
		require.NoError(t, err)
		assert.Equal(t, AccessPublic, updated.AccessLevel)
		assert.Empty(t, updated.AllowedOrganizationIDs)
	})

	t.Run("foreign admin cannot change access", func(t *testing.T) {
		orgBAdmin := &user.User{ID: "ab", Role: user.RoleAdmin, OrganizationID: strPtr("org-b")}
		_, err := svc.UpdateAccess(ctx, rm.ID, AccessUpdateRequest{
			AccessLevel: AccessRestricted,
		}, orgBAdmin)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}
