package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"refrescobot/app/echo-server/router"
	"refrescobot/business/admin"
	"refrescobot/business/categorizer"
	"refrescobot/business/recommend"
	"refrescobot/business/segmenter"
	"refrescobot/internal/middleware"
	psqlRepo "refrescobot/internal/repository/postgres"
	redisRepo "refrescobot/internal/repository/redis"
	"refrescobot/internal/rest"
	"refrescobot/pkg/config"
	"refrescobot/pkg/database"
	"refrescobot/pkg/logger"
	"refrescobot/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("starting", "app", cfg.App.Name, "version", cfg.App.Version)

	engineCfg, err := config.LoadEngine(cfg.Engine.Path)
	if err != nil {
		logger.Fatal("engine_config_invalid", "path", cfg.Engine.Path, "error", err)
	}

	metrics.Init(cfg.App.Version, cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("database_connect_failed", "error", err)
	}
	defer database.ClosePostgres(db)
	logger.Info("database_connected")

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("redis_connect_failed", "error", err)
	}
	defer database.CloseRedisClient(redisClient)
	logger.Info("redis_connected")

	// Init repo
	beverageRepo := psqlRepo.NewBeverageRepository(db)
	sessionRepo := psqlRepo.NewSessionRepository(db)
	ratingRepo := psqlRepo.NewRatingRepository(db)
	sampleRepo := psqlRepo.NewTrainingSampleRepository(db)
	overrideRepo := psqlRepo.NewEngineConfigRepository(db)
	ratingCache := redisRepo.NewRatingCache(redisClient, cfg.Redis.RatingTTL)
	shownStore := redisRepo.NewShownStore(redisClient, cfg.Redis.SessionTTL)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	svc := recommend.NewService(
		beverageRepo, sessionRepo, ratingRepo, sampleRepo, ratingCache, shownStore, overrideRepo,
		categorizer.New(engineCfg.Categorizer),
		segmenter.New(engineCfg.Segmenter),
		recommend.Config{
			Scoring:      engineCfg.Scoring,
			Policy:       engineCfg.Policy,
			SimilarLimit: engineCfg.SimilarLimit,
		},
	)
	adminService := admin.NewAdminService(tokenRepo, admin.Config{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
		JWTSecret:    cfg.JWT.SecretKey,
		TokenTTL:     cfg.JWT.TTL,
	})

	// Init handler
	beverageHandler := rest.NewBeverageHandler(svc)
	recommendationHandler := rest.NewRecommendationHandler(svc)
	adminHandler := rest.NewAdminHandler(adminService, svc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(cfg.JWT.SecretKey, tokenRepo)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetBeverageRoutes(api, beverageHandler)
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetAdminRoutes(api, adminHandler, authRequired, adminOnly)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Warm start from stored samples, then keep retraining on schedule
	go func() {
		if _, err := svc.MaybeRetrain(recommend.WithTraceID(bgCtx, "startup")); err != nil {
			logger.Warn("startup_retrain_failed", "error", err)
		}
		recommend.NewRetrainScheduler(svc, cfg.Engine.RetrainInterval).Run(bgCtx)
	}()

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("server_starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server_start_failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	stopBackground()
	// let in-flight background retrains finish before closing the stores
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("background_retrains_abandoned")
	}

	logger.Info("server_stopped")
}
