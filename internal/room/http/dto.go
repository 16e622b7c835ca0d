package http

import (
	"time"

	"github.com/nekogravitycat/conference-room-backend/internal/pkg/request"
	"github.com/nekogravitycat/conference-room-backend/internal/room"
)

// RoomResponse is the shape of room data in API responses.
type RoomResponse struct {
	ID                     string    `json:"id"`
	OrganizationID         string    `json:"organization_id"`
	OrganizationName       string    `json:"organization_name"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Capacity               int       `json:"capacity"`
	Location               string    `json:"location"`
	Floor                  string    `json:"floor"`
	AccessLevel            string    `json:"access_level"`
	AllowedOrganizationIDs []string  `json:"allowed_organization_ids"`
	ImageURLs              []string  `json:"image_urls"`
	IsActive               bool      `json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// RoomTag is a brief representation of a room.
type RoomTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewRoomResponse converts a domain Room to its API shape.
func NewRoomResponse(r *room.Room) RoomResponse {
	allowed := r.AllowedOrganizationIDs
	if allowed == nil {
		allowed = make([]string, 0)
	}
	images := r.ImageURLs
	if images == nil {
		images = make([]string, 0)
	}

	return RoomResponse{
		ID:                     r.ID,
		OrganizationID:         r.OrganizationID,
		OrganizationName:       r.OrganizationName,
		Name:                   r.Name,
		Description:            r.Description,
		Capacity:               r.Capacity,
		Location:               r.Location,
		Floor:                  r.Floor,
		AccessLevel:            string(r.AccessLevel),
		AllowedOrganizationIDs: allowed,
		ImageURLs:              images,
		IsActive:               r.IsActive,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

// CreateRoomRequest defines the payload to create a room.
type CreateRoomRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Capacity       int    `json:"capacity" binding:"required,min=1"`
	Location       string `json:"location"`
	Floor          string `json:"floor"`
}

// UpdateRoomRequest defines the payload to update a room.
type UpdateRoomRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
	Location    *string `json:"location"`
	Floor       *string `json:"floor"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateRoomAccessRequest defines the payload to change room access rules.
type UpdateRoomAccessRequest struct {
	AccessLevel            string   `json:"access_level" binding:"required,oneof=PUBLIC RESTRICTED"`
	AllowedOrganizationIDs []string `json:"allowed_organization_ids" binding:"omitempty,dive,uuid"`
}

// ListRoomsRequest defines query parameters for listing rooms.
type ListRoomsRequest struct {
	request.ListParams
	OrganizationID string `form:"organization_id" binding:"omitempty,uuid"`
	MinCapacity    int    `form:"min_capacity" binding:"omitempty,min=1"`
}
