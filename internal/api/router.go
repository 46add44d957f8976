package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/api/handlers"
	"github.com/andrelmp/inbox-guardian/internal/api/middleware"
	"github.com/andrelmp/inbox-guardian/internal/config"
	"github.com/andrelmp/inbox-guardian/internal/inbox"
	"github.com/andrelmp/inbox-guardian/internal/ratelimit"
	"github.com/andrelmp/inbox-guardian/internal/storage/postgres"
)

type Server struct {
	Config *config.Config
	Router *gin.Engine

	inboxService *inbox.Service
	tenantRepo   *postgres.TenantRepository
	usage        ratelimit.UsageReporter
	logger       *zap.Logger
}

func NewServer(cfg *config.Config, service *inbox.Service, repo *postgres.TenantRepository, usage ratelimit.UsageReporter, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	server := &Server{
		Config:       cfg,
		Router:       router,
		inboxService: service,
		tenantRepo:   repo,
		usage:        usage,
		logger:       logger,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Health check + scrape endpoint
	s.Router.GET("/health", handlers.HealthCheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Message path: provider webhook, throttled per source IP
	messageHandler := handlers.NewMessageHandler(s.inboxService, s.logger)
	webhook := s.Router.Group("/webhook")
	webhook.Use(middleware.Throttle(s.Config.RateLimit.IngressPerSecond, s.Config.RateLimit.IngressBurst))
	{
		webhook.POST("/messages", messageHandler.ReceiveMessage)
	}

	// Admin API (protected)
	api := s.Router.Group("/api/v1")
	api.Use(middleware.AuthRequired(s.Config.JWT.Secret))

	tenantHandler := handlers.NewTenantHandler(s.tenantRepo, s.usage, s.logger)
	{
		api.GET("/tenants", tenantHandler.ListTenants)
		api.GET("/tenants/:id", tenantHandler.GetTenant)
		api.GET("/tenants/:id/usage", tenantHandler.GetTenantUsage)
	}
}
