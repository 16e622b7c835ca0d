package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/conference-room-backend/internal/auth"
	"github.com/nekogravitycat/conference-room-backend/internal/dashboard"
	"github.com/nekogravitycat/conference-room-backend/internal/pkg/response"
	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

type DashboardHandler struct {
	service     dashboard.Service
	userService user.Service
}

func NewDashboardHandler(service dashboard.Service, userService user.Service) *DashboardHandler {
	return &DashboardHandler{
		service:     service,
		userService: userService,
	}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	actor, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	summary, err := h.service.SummaryFor(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSummaryResponse(summary))
}

// RegisterRoutes registers the dashboard route.
func RegisterRoutes(g *gin.RouterGroup, h *DashboardHandler, authMiddleware gin.HandlerFunc) {
	g.GET("/dashboard", authMiddleware, h.Summary)
}
