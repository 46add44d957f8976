package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/config"
	"github.com/andrelmp/inbox-guardian/internal/metrics"
	"github.com/andrelmp/inbox-guardian/internal/queue"
	"github.com/andrelmp/inbox-guardian/internal/responder"
	"github.com/andrelmp/inbox-guardian/internal/storage/postgres"
	"github.com/andrelmp/inbox-guardian/internal/storage/redis"
	"github.com/andrelmp/inbox-guardian/internal/worker"
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

	db, err := postgres.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	cache := redis.NewClient(cfg.Redis.URL)
	defer cache.Close()

	jobQueue := queue.NewRedisQueue(cache.Client)
	tenantRepo := postgres.NewTenantRepository(db)
	matcher := responder.NewMatcher(responder.DefaultFAQs())
	sender := worker.NewLogSender(logger)
	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Worker.Count; i++ {
		w := worker.New(i, jobQueue, tenantRepo, matcher, sender, cfg.Worker.PopTimeout, logger, collector)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(ctx)
		}()
	}

	logger.Info("Responder workers started", zap.Int("count", cfg.Worker.Count))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down workers...")
	cancel()
	wg.Wait()

	logger.Info("Workers exited")
}
