package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/api"
	"github.com/andrelmp/inbox-guardian/internal/config"
	"github.com/andrelmp/inbox-guardian/internal/guard"
	"github.com/andrelmp/inbox-guardian/internal/inbox"
	"github.com/andrelmp/inbox-guardian/internal/metrics"
	"github.com/andrelmp/inbox-guardian/internal/queue"
	"github.com/andrelmp/inbox-guardian/internal/ratelimit"
	"github.com/andrelmp/inbox-guardian/internal/storage/postgres"
	"github.com/andrelmp/inbox-guardian/internal/storage/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	// Database
	db, err := postgres.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis
	cache := redis.NewClient(cfg.Redis.URL)
	defer cache.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.Healthy(pingCtx); err != nil {
		logger.Warn("Redis unreachable at startup, rate limiting will run degraded", zap.Error(err))
	}
	pingCancel()

	// Rate limiter backend
	var limiter interface {
		ratelimit.Limiter
		ratelimit.UsageReporter
	}
	switch cfg.RateLimit.Backend {
	case "memory":
		limiter = ratelimit.NewMemoryLimiter()
	default:
		limiter = ratelimit.NewRedisLimiter(cache.Client, cfg.RateLimit.Timeout)
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	chain := guard.NewChain(limiter, cfg.RateLimit.FailOpen, logger, collector)

	tenantRepo := postgres.NewTenantRepository(db)
	jobQueue := queue.NewRedisQueue(cache.Client)
	service := inbox.NewService(tenantRepo, chain, jobQueue, logger, collector)

	// API Server
	server := api.NewServer(cfg, service, tenantRepo, limiter, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
