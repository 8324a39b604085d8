package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/config"
	"github.com/zfogg/curlmap/backend/internal/container"
	"github.com/zfogg/curlmap/backend/internal/database"
	"github.com/zfogg/curlmap/backend/internal/handlers"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/metrics"
	"github.com/zfogg/curlmap/backend/internal/middleware"
	"github.com/zfogg/curlmap/backend/internal/telemetry"
	"github.com/zfogg/curlmap/backend/internal/util"
	"github.com/zfogg/curlmap/backend/internal/validation"
	"go.uber.org/zap"
)

const serviceName = "curlmap-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("=== curlmap server starting ===",
		zap.String("environment", cfg.Server.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Server.Environment,
		OTLPEndpoint: cfg.Telemetry.Endpoint,
		Enabled:      cfg.Telemetry.Enabled,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Log.Warn("Tracing disabled: failed to initialize tracer", zap.Error(err))
	}

	// Initialize database
	if err := database.Initialize(cfg.Database, cfg.Server.Environment); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	app, err := container.Build(cfg, database.DB, nil)
	if err != nil {
		logger.FatalWithFields("Failed to build services", err)
	}

	validator := validation.NewServiceValidator(cfg.Server.RequiredServices, map[string]validation.Check{
		"database": func(context.Context) error { return database.Health() },
		"redis": func(ctx context.Context) error {
			if _, ok := app.Store().(*cache.RedisClient); !ok {
				return errors.New("redis is not configured or unreachable, using the in-memory store")
			}
			return app.Store().Ping(ctx)
		},
		"google": func(ctx context.Context) error {
			_, err := app.Geocoder().Geocode(ctx, "Rochester, NY")
			return err
		},
	})
	if err := validator.ValidateServices(context.Background()); err != nil {
		logger.FatalWithFields("Service validation failed", err)
	}

	if r := app.Refresher(); r != nil {
		r.Start()
		app.OnCleanup(func(context.Context) error {
			r.Stop()
			return nil
		})
	}

	metrics.Initialize()
	util.SetExposeErrorDetails(!cfg.Server.IsProduction())

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.TracingMiddleware(serviceName)...)
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Cache", "X-Request-ID", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandlers(app.DB())
	h.SetSpamGuard(app.Guard())
	h.SetMentionDetector(app.Mentions())
	h.SetDirectoryService(app.Directory())
	h.RegisterRoutes(r, handlers.RouteOptions{
		WriteMiddleware: []gin.HandlerFunc{
			middleware.NewRateLimiter(middleware.WriteRateLimitConfig()),
		},
		AdminMiddleware: []gin.HandlerFunc{
			middleware.StoreRateLimitMiddleware(app.Store(), middleware.AdminRateLimitConfig()),
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalWithFields("Server failed", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}
	if err := app.Cleanup(ctx); err != nil {
		logger.ErrorWithFields("Cleanup failed", err)
	}
	if err := telemetry.Shutdown(ctx, tp); err != nil {
		logger.ErrorWithFields("Tracer shutdown failed", err)
	}
	if err := database.Close(); err != nil {
		logger.ErrorWithFields("Failed to close database", err)
	}

	logger.Log.Info("Server exited")
}
