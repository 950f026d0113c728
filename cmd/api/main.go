package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/config"
	"github.com/pageza/recipe-catalog/internal/api"
	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/client"
	"github.com/pageza/recipe-catalog/internal/database"
	"github.com/pageza/recipe-catalog/internal/export"
	"github.com/pageza/recipe-catalog/internal/media"
	"github.com/pageza/recipe-catalog/internal/middleware"
	"github.com/pageza/recipe-catalog/internal/repository"
	"github.com/pageza/recipe-catalog/internal/server"
	"github.com/pageza/recipe-catalog/internal/service"
	"github.com/pageza/recipe-catalog/internal/session"
	"github.com/pageza/recipe-catalog/internal/task"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()
	ctx := context.Background()

	// Snapshot database
	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Catalog
	pipeline := catalog.NewPipeline(
		catalog.NewClassifier(catalog.KeywordsFor(cfg.Locale), cfg.LargeThreshold),
		cfg.PageSize,
		cfg.Locale,
	)
	store := client.New(cfg.UpstreamURL, cfg.UpstreamTimeout)
	catalogService := service.NewCatalogService(store, pipeline, repository.NewSnapshotRepository(db), log)
	if err := catalogService.Warm(ctx); err != nil {
		log.WithError(err).Warn("starting without snapshot")
	}
	if err := catalogService.Refresh(ctx); err != nil {
		log.WithError(err).Warn("initial refresh failed, serving snapshot")
	}

	deps := api.Dependencies{
		Catalog:  catalogService,
		Exporter: export.NewExporter(pipeline.Classifier()),
		DB:       db,
	}

	// Optional: Redis backs sessions and rate limiting
	redisClient, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		deps.Sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		deps.Limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window: cfg.RateWindow,
			Limit:  cfg.RateLimit,
		}, log)
	}

	// Optional: S3 backs image uploads
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}
	if s3Config != nil {
		deps.Images = media.NewImageStore(s3Config, log)
	}

	scheduler := task.NewScheduler(log)
	if cfg.RefreshSchedule != "" {
		if err := scheduler.Register(cfg.RefreshSchedule, task.NewRefreshJob(catalogService, cfg.UpstreamTimeout*3)); err != nil {
			log.Fatalf("Failed to schedule refresh: %v", err)
		}
	}
	scheduler.Start()

	srv := server.New(cfg, deps, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Errorf("Server error: %v", err)
		}
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("received signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	scheduler.Stop()
	log.Info("server stopped")
}
