package http

import (
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/organization"
	"github.com/nekogravitycat/conference-room-backend/internal/pkg/request"
)

// OrganizationResponse is the shape of organization data in API responses.
type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrganizationTag is a brief representation of an organization.
type OrganizationTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewOrganizationResponse converts a domain Organization to its API shape.
func NewOrganizationResponse(org *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		IsActive:    org.IsActive,
		CreatedAt:   org.CreatedAt,
	}
}

// CreateOrganizationRequest defines the payload to create an organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateOrganizationRequest defines the payload to update an organization.
type UpdateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// ListOrganizationsRequest defines query parameters for listing organizations.
type ListOrganizationsRequest struct {
	request.ListParams
}
