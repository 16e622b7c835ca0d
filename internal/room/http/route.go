package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers room routes. All routes require authentication;
// ownership checks happen in the service layer.
func RegisterRoutes(g *gin.RouterGroup, h *RoomHandler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/rooms")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
		group.PUT("/:id/access", h.UpdateAccess)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/images", h.UploadImage)
	}
}
