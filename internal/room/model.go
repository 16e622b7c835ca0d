package room

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "room not found")
	ErrNameTaken        = apperror.New(http.StatusConflict, "room with this name already exists in organization")
	ErrOrgRequired      = apperror.New(http.StatusBadRequest, "organization is required")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "capacity must be positive")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidImage     = apperror.New(http.StatusBadRequest, "invalid image file")
)

// AccessLevel controls which organizations may book a room.
type AccessLevel string

const (
	// AccessPublic rooms are bookable by users of any organization.
	AccessPublic AccessLevel = "PUBLIC"
	// AccessRestricted rooms are bookable only by the owning organization
	// and the organizations on the allow-list.
	AccessRestricted AccessLevel = "RESTRICTED"
)

// Room is a bookable conference room owned by exactly one organization.
type Room struct {
	ID               string
	OrganizationID   string
	OrganizationName string
	Name             string
	Description      string
	Capacity         int
	Location         string
	Floor            string
	AccessLevel      AccessLevel
	// AllowedOrganizationIDs is consulted only when AccessLevel is RESTRICTED.
	AllowedOrganizationIDs []string
	ImageURLs              []string
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// AccessibleBy reports whether users of the given organization may book the
// room. orgID may be empty (user without an organization).
func (r *Room) AccessibleBy(orgID string) bool {
	if r.AccessLevel == AccessPublic {
		return true
	}
	if orgID == "" {
		return false
	}
	if r.OrganizationID == orgID {
		return true
	}
	for _, allowed := range r.AllowedOrganizationIDs {
		if allowed == orgID {
			return true
		}
	}
	return false
}

// Filter defines filter options for listing rooms.
type Filter struct {
	OrganizationID string
	MinCapacity    int
	ActiveOnly     bool

	Page     int
	PageSize int
}
