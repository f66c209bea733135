package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/driver-console/internal/drivers"
	"github.com/richxcame/driver-console/pkg/common"
	"github.com/richxcame/driver-console/pkg/config"
	"github.com/richxcame/driver-console/pkg/database"
	sentryerrors "github.com/richxcame/driver-console/pkg/errors"
	"github.com/richxcame/driver-console/pkg/logger"
	"github.com/richxcame/driver-console/pkg/middleware"
	"github.com/richxcame/driver-console/pkg/redis"
	"go.uber.org/zap"
)

const serviceName = "console"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	sentryEnabled, err := sentryerrors.InitSentry(&cfg.Sentry, cfg.Server.Environment, serviceName)
	if err != nil {
		logger.Warn("sentry initialization failed", zap.Error(err))
	}
	if sentryEnabled {
		defer sentryerrors.Flush(2 * time.Second)
	}

	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	var idempotency gin.HandlerFunc
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		idempotency = middleware.Idempotency(redisClient)
	} else {
		logger.Warn("redis disabled, batch endpoints run without idempotency keys")
	}

	repo := drivers.NewRepository(pool)
	service := drivers.NewService(repo)
	handler := drivers.NewHandler(service)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestTimeout(&cfg.Timeout))
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	if sentryEnabled {
		router.Use(middleware.Sentry())
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			common.ErrorResponse(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		common.SuccessResponse(c, gin.H{"status": "ok", "service": serviceName})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	api.Use(middleware.RequireAdmin())
	handler.RegisterRoutes(api, idempotency)

	var expiryWorker *drivers.ExpiryWorker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Suspension.AutoExpiry {
		interval := time.Duration(cfg.Suspension.ExpiryCheckMinutes) * time.Minute
		expiryWorker = drivers.NewExpiryWorker(repo, interval)
		expiryWorker.Start(workerCtx)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("console service starting",
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down console service")

	if expiryWorker != nil {
		expiryWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("console service stopped")
}
