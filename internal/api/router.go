package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nekogravitycat/conference-room-backend/internal/auth"
	"github.com/nekogravitycat/conference-room-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/conference-room-backend/internal/booking/http"
	"github.com/nekogravitycat/conference-room-backend/internal/dashboard"
	dashboardHttp "github.com/nekogravitycat/conference-room-backend/internal/dashboard/http"
	"github.com/nekogravitycat/conference-room-backend/internal/organization"
	orgHttp "github.com/nekogravitycat/conference-room-backend/internal/organization/http"
	"github.com/nekogravitycat/conference-room-backend/internal/room"
	roomHttp "github.com/nekogravitycat/conference-room-backend/internal/room/http"
	"github.com/nekogravitycat/conference-room-backend/internal/user"
	userHttp "github.com/nekogravitycat/conference-room-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService      user.Service
	OrgService       organization.Service
	RoomService      room.Service
	BookingService   booking.Service
	DashboardService dashboard.Service
	JWTManager       *auth.JWTManager

	// UploadDir, when non-empty, is served under /uploads for room images.
	UploadDir string
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewUserHandler(cfg.UserService, cfg.JWTManager)
	orgHandler := orgHttp.NewOrganizationHandler(cfg.OrgService)
	roomHandler := roomHttp.NewRoomHandler(cfg.RoomService, cfg.UserService)
	bookingHandler := bookingHttp.NewBookingHandler(cfg.BookingService, cfg.UserService)
	dashboardHandler := dashboardHttp.NewDashboardHandler(cfg.DashboardService, cfg.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		orgHttp.RegisterRoutes(v1, orgHandler, authMiddleware, sysAdminMiddleware)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		dashboardHttp.RegisterRoutes(v1, dashboardHandler, authMiddleware)
	}

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded room images
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	return r
}
