package bootstrap

import (
	"context"
	"log"
	"time"

	"commercial-hub-be/internal/config"
	"commercial-hub-be/internal/controller"
	"commercial-hub-be/internal/handler"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/pkg/mailer"
	"commercial-hub-be/internal/repository/memory"
	"commercial-hub-be/internal/repository/unitofwork"
	"commercial-hub-be/internal/service"
	"commercial-hub-be/internal/store/local"
	"commercial-hub-be/internal/websocket"
	"commercial-hub-be/pkg/querycache"

	pktNats "commercial-hub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ProfileController   controller.IProfileController
	ProjectController   controller.IProjectController
	DashboardController controller.IDashboardController

	// Background services (exposed for main.go to run)
	RelayService service.IRelayService

	// WebSockets
	ChangeFeedHandler *handler.ChangeFeedHandler
	WebSocketHub      *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// In-memory session storage
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.Auth.SessionTTLHours) * time.Hour)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/changefeed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Auth + Store
	authService := service.NewAuthService(uowFactory, emailService, sessionRepo, cfg.Auth, sysLogger)

	blobs := local.NewDiskBlobStore(cfg.Storage.UploadDir, cfg.App.BaseURL)
	hubStore := local.NewStore(uowFactory, pubSub, authService, blobs, sysLogger, cfg.App.InstanceID)
	authService.SetNotifier(hubStore)

	// 4. Query Cache + Domain Services
	cache := querycache.NewCache(hubStore, sysLogger, time.Hour)

	profileService, err := service.NewProfileService(hubStore, cache, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to register profiles query: %v", err)
	}
	projectService, err := service.NewProjectService(hubStore, cache, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to register projects query: %v", err)
	}
	dashboardService := service.NewDashboardService(cache)

	relayService := service.NewRelayService(hubStore, wsHub, natsPub, natsSub, sysLogger)

	changeFeedHandler := handler.NewChangeFeedHandler(wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		ChangeFeedHandler:   changeFeedHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService, profileService),
		ProfileController:   controller.NewProfileController(profileService),
		ProjectController:   controller.NewProjectController(projectService),
		DashboardController: controller.NewDashboardController(dashboardService),

		RelayService: relayService,
	}
}
