package room

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/nekogravitycat/conference-room-backend/internal/pkg/storage"
	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

// CreateRequest holds fields for creating a room.
type CreateRequest struct {
	OrganizationID string
	Name           string
	Description    string
	Capacity       int
	Location       string
	Floor          string
}

// UpdateRequest holds fields for updating a room.
type UpdateRequest struct {
	Name        *string
	Description *string
	Capacity    *int
	Location    *string
	Floor       *string
	IsActive    *bool
}

// AccessUpdateRequest changes a room's access level and allow-list.
type AccessUpdateRequest struct {
	AccessLevel            AccessLevel
	AllowedOrganizationIDs []string
}

// Service defines business logic for rooms.
type Service interface {
	// Create creates a room. Admins may only create rooms in their own
	// organization; system admins may create rooms anywhere.
	Create(ctx context.Context, req CreateRequest, actor *user.User) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)

	// ListAccessible returns rooms the actor may book, honoring access
	// levels. System admins see all rooms.
	ListAccessible(ctx context.Context, filter Filter, actor *user.User) ([]*Room, int, error)

	Update(ctx context.Context, id string, req UpdateRequest, actor *user.User) (*Room, error)
	UpdateAccess(ctx context.Context, id string, req AccessUpdateRequest, actor *user.User) (*Room, error)

	// Delete removes a room and cascades to its bookings.
	Delete(ctx context.Context, id string, actor *user.User) error

	// AddImage stores an uploaded room image plus a thumbnail and records
	// their URLs on the room.
	AddImage(ctx context.Context, id string, content io.Reader, actor *user.User) (*Room, error)
}

type service struct {
	repo      Repository
	files     storage.Storage
	thumbs    *storage.ImageProcessor
	thumbSize int
}

// NewService creates a new room service.
func NewService(repo Repository, files storage.Storage, thumbs *storage.ImageProcessor) Service {
	return &service{
		repo:      repo,
		files:     files,
		thumbs:    thumbs,
		thumbSize: 320,
	}
}

// canManage reports whether the actor may mutate rooms of the organization.
func canManage(actor *user.User, orgID string) bool {
	switch actor.Role {
	case user.RoleSystemAdmin:
		return true
	case user.RoleAdmin:
		return actor.OrganizationID != nil && *actor.OrganizationID == orgID
	case user.RoleUser:
		return false
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateRequest, actor *user.User) (*Room, error) {
	if req.OrganizationID == "" {
		return nil, ErrOrgRequired
	}
	if !canManage(actor, req.OrganizationID) {
		return nil, ErrPermissionDenied
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	rm := &Room{
		OrganizationID: req.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Capacity:       req.Capacity,
		Location:       req.Location,
		Floor:          req.Floor,
		AccessLevel:    AccessPublic,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListAccessible(ctx context.Context, filter Filter, actor *user.User) ([]*Room, int, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if actor.Role == user.RoleSystemAdmin {
		return rooms, total, nil
	}

	var orgID string
	if actor.OrganizationID != nil {
		orgID = *actor.OrganizationID
	}

	accessible := rooms[:0]
	for _, rm := range rooms {
		if rm.AccessibleBy(orgID) {
			accessible = append(accessible, rm)
		}
	}
	// Total reflects the unfiltered page count; access filtering happens
	// in-process, so the count is an upper bound.
	return accessible, total, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actor *user.User) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, rm.OrganizationID) {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		rm.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		rm.Description = *req.Description
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		rm.Capacity = *req.Capacity
	}
	if req.Location != nil {
		rm.Location = *req.Location
	}
	if req.Floor != nil {
		rm.Floor = *req.Floor
	}
	if req.IsActive != nil {
		rm.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) UpdateAccess(ctx context.Context, id string, req AccessUpdateRequest, actor *user.User) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, rm.OrganizationID) {
		return nil, ErrPermissionDenied
	}

	rm.AccessLevel = req.AccessLevel
	if req.AccessLevel == AccessPublic {
		rm.AllowedOrganizationIDs = nil
	} else {
		rm.AllowedOrganizationIDs = req.AllowedOrganizationIDs
	}

	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) Delete(ctx context.Context, id string, actor *user.User) error {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, rm.OrganizationID) {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AddImage(ctx context.Context, id string, content io.Reader, actor *user.User) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, rm.OrganizationID) {
		return nil, ErrPermissionDenied
	}

	// Buffer the upload so we can store the original and derive a thumbnail.
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read image upload: %w", err)
	}

	thumb, err := s.thumbs.GenerateThumbnail(bytes.NewReader(data), s.thumbSize, s.thumbSize)
	if err != nil {
		return nil, ErrInvalidImage
	}

	name := uuid.New().String()
	originalPath := fmt.Sprintf("rooms/%s/%s.jpg", rm.OrganizationID, name)
	thumbPath := fmt.Sprintf("rooms/%s/%s_thumb.jpg", rm.OrganizationID, name)

	if err := s.files.Save(ctx, originalPath, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if err := s.files.Save(ctx, thumbPath, thumb); err != nil {
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	rm.ImageURLs = append(rm.ImageURLs, "/"+originalPath)
	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}
