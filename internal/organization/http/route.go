package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers organization routes. Mutations require system
// admin privileges.
func RegisterRoutes(g *gin.RouterGroup, h *OrganizationHandler, authMiddleware, sysAdminMiddleware gin.HandlerFunc) {
	group := g.Group("/organizations")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		group.POST("", sysAdminMiddleware, h.Create)
		group.PATCH("/:id", sysAdminMiddleware, h.Update)
		group.DELETE("/:id", sysAdminMiddleware, h.Delete)
	}
}
