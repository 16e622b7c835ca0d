package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/conference-room-backend/internal/api"
	"github.com/nekogravitycat/conference-room-backend/internal/auth"
	"github.com/nekogravitycat/conference-room-backend/internal/booking"
	"github.com/nekogravitycat/conference-room-backend/internal/config"
	"github.com/nekogravitycat/conference-room-backend/internal/dashboard"
	"github.com/nekogravitycat/conference-room-backend/internal/notify"
	"github.com/nekogravitycat/conference-room-backend/internal/organization"
	"github.com/nekogravitycat/conference-room-backend/internal/pkg/storage"
	"github.com/nekogravitycat/conference-room-backend/internal/room"
	"github.com/nekogravitycat/conference-room-backend/internal/user"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router  *gin.Engine
	Sweeper *booking.Sweeper

	notifier notify.Notifier
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	// Init components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	notifier, err := newNotifier(cfg)
	if err != nil {
		return nil, err
	}

	fileStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}
	imageProcessor := storage.NewImageProcessor()

	// User module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher, notifier)

	// Organization module
	orgRepo := organization.NewPgxRepository(pool)
	orgService := organization.NewService(orgRepo)

	// Room module
	roomRepo := room.NewPgxRepository(pool)
	roomService := room.NewService(roomRepo, fileStorage, imageProcessor)

	// Booking module
	bookingRepo := booking.NewPgxRepository(pool)
	bookingService := booking.NewService(bookingRepo, userService, notifier)
	sweeper := booking.NewSweeper(bookingService, cfg.SweepInterval)

	// Dashboard module
	dashboardService := dashboard.NewService(bookingService, roomRepo, orgRepo)

	router := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		UserService:      userService,
		OrgService:       orgService,
		RoomService:      roomService,
		BookingService:   bookingService,
		DashboardService: dashboardService,
		JWTManager:       jwtManager,
		UploadDir:        cfg.UploadDir,
	})

	return &Container{
		Router:   router,
		Sweeper:  sweeper,
		notifier: notifier,
	}, nil
}

// Close releases resources held by the container.
func (c *Container) Close() {
	if closer, ok := c.notifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logrus.WithError(err).Warn("close notifier failed")
		}
	}
}

// newNotifier picks the notification transport: AMQP when configured, then
// direct SMTP, then log-only delivery for development.
func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	if cfg.AMQPURL != "" {
		n, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.NotifyQueue)
		if err != nil {
			return nil, fmt.Errorf("init amqp notifier: %w", err)
		}
		logrus.WithField("queue", cfg.NotifyQueue).Info("using AMQP notification transport")
		return n, nil
	}
	if cfg.SMTPAddr != "" {
		logrus.WithField("addr", cfg.SMTPAddr).Info("using SMTP notification transport")
		return notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass), nil
	}
	logrus.Info("no notification transport configured, logging notifications")
	return notify.NewLogNotifier(), nil
}
