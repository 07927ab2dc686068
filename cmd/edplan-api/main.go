package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Dipanshu-5/EdPlan/api/swagger"
	"github.com/Dipanshu-5/EdPlan/internal/handler"
	"github.com/Dipanshu-5/EdPlan/internal/middleware"
	"github.com/Dipanshu-5/EdPlan/internal/repository"
	"github.com/Dipanshu-5/EdPlan/internal/service"
	"github.com/Dipanshu-5/EdPlan/pkg/cache"
	"github.com/Dipanshu-5/EdPlan/pkg/config"
	"github.com/Dipanshu-5/EdPlan/pkg/database"
	"github.com/Dipanshu-5/EdPlan/pkg/export"
	"github.com/Dipanshu-5/EdPlan/pkg/logger"
	corsmiddleware "github.com/Dipanshu-5/EdPlan/pkg/middleware/cors"
	reqidmiddleware "github.com/Dipanshu-5/EdPlan/pkg/middleware/requestid"
	"github.com/Dipanshu-5/EdPlan/pkg/storage"
)

// @title EdPlan API
// @version 1.0.0
// @description Course catalog lookups and education plan editing with prerequisite and co-requisite checks
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.ReadinessCheck{}
	metricsService := service.NewMetricsService()

	var redisClient redis.UniversalClient
	if cfg.Catalog.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			redisClient = client
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}
	cacheService := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logr),
		metricsService,
		cfg.Catalog.CacheTTL,
		logr,
		redisClient != nil,
	)

	catalogRepo := repository.NewCatalogRepository(cfg.Catalog.Path)
	if err := catalogRepo.Reload(); err != nil {
		logr.Fatal("failed to load catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}
	checks["catalog"] = func(ctx context.Context) error {
		_, err := catalogRepo.ListPrograms(ctx)
		return err
	}
	catalogService := service.NewCatalogService(catalogRepo, cacheService, cfg.Catalog.CacheTTL, logr)
	if cacheService.Enabled() {
		warmer := service.NewCatalogWarmer(catalogService, 2, logr)
		warmer.Start(ctx)
		defer warmer.Stop()
		catalogService.WithWarmer(warmer)
		if _, err := warmer.WarmAll(ctx); err != nil {
			logr.Warn("catalog warm-up failed", zap.Error(err))
		}
	}

	blobs, err := storage.NewLocalStorage(cfg.Plans.LocalDir)
	if err != nil {
		logr.Fatal("failed to prepare local plan storage", zap.String("dir", cfg.Plans.LocalDir), zap.Error(err))
	}
	localPlans := repository.NewLocalPlanRepository(blobs)

	validate := validator.New()
	planService := service.NewPlanService(catalogService, nil, localPlans, validate, metricsService, logr, service.PlanServiceConfig{})
	if cfg.Plans.RemoteEnabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()
		checks["postgres"] = pingDB(db)
		planService = service.NewPlanService(catalogService, repository.NewPlanRepository(db), localPlans, validate, metricsService, logr,
			service.PlanServiceConfig{RemoteEnabled: true})
	}

	exportService := service.NewExportService(planService, logr, export.NewCSVExporter(), export.NewPDFExporter(), cfg.Exports.Enabled)
	authService := service.NewAuthService(logr, service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	catalogHandler := handler.NewCatalogHandler(catalogService)
	planHandler := handler.NewPlanHandler(planService, exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Identity(authService))

	programs := api.Group("/programs")
	programs.GET("", catalogHandler.ListPrograms)
	programs.GET("/courses", catalogHandler.Courses)
	programs.GET("/default-plan", catalogHandler.DefaultPlan)
	programs.POST("/reload", middleware.Authenticated(), catalogHandler.Reload)

	plans := api.Group("/plans")
	plans.POST("/validate", planHandler.Validate)
	plans.POST("/courses", planHandler.AddCourse)
	plans.POST("/courses/remove", planHandler.RemoveCourse)
	plans.POST("/reset", planHandler.Reset)
	plans.POST("", planHandler.Save)
	plans.GET("", planHandler.List)
	plans.GET("/detail", planHandler.Get)
	plans.DELETE("", planHandler.Delete)
	plans.GET("/export", planHandler.Export)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func pingDB(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
