// Command server runs the integrity and revenue allocation engine.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	integrityapi "github.com/bylinehq/integrity-engine/internal/api/integrity"
	revenueapi "github.com/bylinehq/integrity-engine/internal/api/revenue"
	"github.com/bylinehq/integrity-engine/internal/audit"
	"github.com/bylinehq/integrity-engine/internal/config"
	"github.com/bylinehq/integrity-engine/internal/notify"
	"github.com/bylinehq/integrity-engine/internal/repository"
	"github.com/bylinehq/integrity-engine/internal/service/labels"
	"github.com/bylinehq/integrity-engine/internal/service/reputation"
	"github.com/bylinehq/integrity-engine/internal/service/revenue"
	"github.com/bylinehq/integrity-engine/internal/service/scheduler"
	"github.com/bylinehq/integrity-engine/pkg/cache"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting integrity engine")

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.Postgres.MigrationsPath != "" {
		if err := db.RunMigrations(cfg.Database.Postgres.MigrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	} else if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate schema")
	}

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Repositories
	contributorRepo := repository.NewContributorRepository(db)
	reputationRepo := repository.NewReputationRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	platformRepo := repository.NewPlatformRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	auditSink := audit.NewSink(auditRepo, log)
	notifier := notify.NewClient(&cfg.Notifications, log)
	labelService := labels.NewService(labelRepo, auditSink, log)
	reputationService := reputation.NewService(
		contributorRepo, reputationRepo, redisCache, auditSink, labelService,
		log, cfg.Revenue.ScoreCacheTTLDuration(),
	)
	revenueService := revenue.NewService(
		contributorRepo, articleRepo, revenueRepo, platformRepo, auditSink,
		revenue.Config{
			DefaultMargin:       cfg.Revenue.DefaultMargin,
			DefaultMonthlyPrice: cfg.Revenue.DefaultMonthlyPrice,
		},
		log,
	)

	schedulerService := scheduler.NewService(cfg, revenueService, notifier, log)
	if err := schedulerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer schedulerService.Stop()

	// HTTP server
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "cache": "ok"}
		if err := db.Health(); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := redisCache.Health(c.Request.Context()); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, checks)
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api/v1")
	integrityapi.NewHandler(reputationService, labelService, notifier, log).RegisterRoutes(api)
	revenueapi.NewHandler(revenueService, log).RegisterRoutes(api)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
