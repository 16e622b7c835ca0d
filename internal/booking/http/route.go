package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes. All routes require
// authentication; role and ownership checks happen in the service layer.
func RegisterRoutes(g *gin.RouterGroup, h *BookingHandler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/pending", h.ListPending)
		group.GET("/upcoming", h.ListUpcoming)
		group.GET("/history", h.ListHistory)
		group.GET("/:id", h.Get)

		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/approve", h.Approve)
		group.POST("/:id/reject", h.Reject)
		group.POST("/:id/cancel", h.Cancel)
	}
}
