package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/conference-room-backend/internal/auth"
	"github.com/nekogravitycat/conference-room-backend/internal/booking"
	"github.com/nekogravitycat/conference-room-backend/internal/pkg/request"
	"github.com/nekogravitycat/conference-room-backend/internal/pkg/response"
	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

type BookingHandler struct {
	service     booking.Service
	userService user.Service
}

func NewBookingHandler(service booking.Service, userService user.Service) *BookingHandler {
	return &BookingHandler{
		service:     service,
		userService: userService,
	}
}

func (h *BookingHandler) actor(c *gin.Context) (*user.User, bool) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	return u, true
}

// bookingError maps booking errors to responses, handling the structured
// conflict payloads before falling back to the generic AppError mapping.
func bookingError(c *gin.Context, err error) {
	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, ConflictResponse{
			Error:       conflict.Error(),
			BookingID:   conflict.BookingID,
			StartTime:   conflict.StartTime,
			EndTime:     conflict.EndTime,
			BookedBy:    conflict.OwnerName,
			BookedByOrg: conflict.OrgName,
			ContactMail: conflict.OwnerMail,
		})
		return
	}

	var state *booking.StateConflictError
	if errors.As(err, &state) {
		c.JSON(http.StatusConflict, StateConflictResponse{
			Error:         state.Error(),
			CurrentStatus: string(state.Current),
		})
		return
	}

	response.Error(c, err)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		RoomID:        req.RoomID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Purpose:       req.Purpose,
		Notes:         req.Notes,
		AttendeeCount: req.AttendeeCount,
		IsRecurring:   req.IsRecurring,
	}, actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *BookingHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID, actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListForActor(c.Request.Context(), actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewBookingListResponse(bookings)))
}

func (h *BookingHandler) ListPending(c *gin.Context) {
	var req ListPendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	orgID := req.OrganizationID
	if orgID == "" {
		if actor.OrganizationID == nil {
			bookingError(c, booking.ErrScopeRequired)
			return
		}
		orgID = *actor.OrganizationID
	}

	bookings, err := h.service.ListPendingForOrganization(c.Request.Context(), orgID, actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewBookingListResponse(bookings)))
}

func (h *BookingHandler) ListUpcoming(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListUpcomingForUser(c.Request.Context(), actor.ID, time.Now())
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewBookingListResponse(bookings)))
}

func (h *BookingHandler) ListHistory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListHistoryForUser(c.Request.Context(), actor.ID)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewBookingListResponse(bookings)))
}

func (h *BookingHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.Update(c.Request.Context(), uri.ID, booking.UpdateRequest{
		Purpose:       req.Purpose,
		Notes:         req.Notes,
		AttendeeCount: req.AttendeeCount,
	}, actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *BookingHandler) Approve(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.Approve(c.Request.Context(), req.ID, actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *BookingHandler) Reject(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req RejectBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.Reject(c.Request.Context(), uri.ID, req.Reason, actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), req.ID, actor)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
