package organization

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "organization not found")
	ErrNameRequired = apperror.New(http.StatusBadRequest, "organization name is required")
	ErrNameTaken    = apperror.New(http.StatusConflict, "organization name already exists")
)

// Organization is the scoping boundary for rooms, admins, and most booking
// visibility.
type Organization struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// Filter defines filter options for listing organizations.
type Filter struct {
	Page     int
	PageSize int
}
