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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/schoolops/substitute-api/api/swagger"
	"github.com/schoolops/substitute-api/internal/handler"
	"github.com/schoolops/substitute-api/internal/middleware"
	"github.com/schoolops/substitute-api/internal/remote"
	"github.com/schoolops/substitute-api/internal/repository"
	"github.com/schoolops/substitute-api/internal/service"
	"github.com/schoolops/substitute-api/internal/store"
	"github.com/schoolops/substitute-api/pkg/cache"
	"github.com/schoolops/substitute-api/pkg/config"
	"github.com/schoolops/substitute-api/pkg/logger"
	corsmiddleware "github.com/schoolops/substitute-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolops/substitute-api/pkg/middleware/requestid"
	"github.com/schoolops/substitute-api/pkg/outbox"
)

// @title Substitute API
// @version 1.0.0
// @description Substitute teacher assignment service
// @BasePath /api/v1
// @schemes http

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

	remoteClient := remote.NewClient(cfg.Remote, logr)

	var queue *outbox.Queue
	metricsSvc := service.NewMetricsService(func() int {
		if queue == nil {
			return 0
		}
		return queue.Depth()
	})

	var cacheSvc *service.CacheService
	if cfg.Availability.CacheEnabled {
		redisClient, redisErr := cache.NewRedis(cfg.Redis)
		if redisErr != nil {
			logr.Warn("redis unavailable, availability cache disabled", zap.Error(redisErr))
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Availability.CacheTTL, logr, true)
		}
	}

	queue = outbox.New(func(ctx context.Context, cmd outbox.Command) error {
		switch cmd.Op {
		case outbox.OpCreate:
			return remoteClient.Create(ctx, cmd.Collection, cmd.Record)
		case outbox.OpUpdate:
			return remoteClient.Update(ctx, cmd.Collection, cmd.Record)
		case outbox.OpDelete:
			return remoteClient.Delete(ctx, cmd.Collection, cmd.ID)
		}
		return fmt.Errorf("unknown op %q", cmd.Op)
	}, outbox.Config{
		Workers:    cfg.Outbox.Workers,
		BufferSize: cfg.Outbox.BufferSize,
		Logger:     logr,
		OnResult: func(cmd outbox.Command, err error) {
			metricsSvc.RecordOutboxResult(string(cmd.Op), err)
		},
	})
	queue.Start(ctx)
	defer queue.Stop()

	st := store.New(remoteClient, queue, logr)

	validate := validator.New()
	availabilitySvc := service.NewAvailabilityService(st, cacheSvc, validate, logr)
	stateSvc := service.NewStateService(st, logr)
	leaveSvc := service.NewLeaveService(st, validate, logr)
	substituteSvc := service.NewSubstituteService(st, validate, logr)
	scheduleSvc := service.NewScheduleService(st, validate, logr)
	rosterSvc := service.NewRosterService(st, validate, logr)

	st.OnMutate(func() {
		availabilitySvc.InvalidateCache(context.Background())
	})

	if err := st.Load(ctx); err != nil {
		// The reload endpoint recovers once the remote comes back.
		logr.Warn("initial state load failed", zap.Error(err))
	}

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	stateHandler := handler.NewStateHandler(stateSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	substituteHandler := handler.NewSubstituteHandler(substituteSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	teacherHandler := handler.NewTeacherHandler(rosterSvc)
	subjectHandler := handler.NewSubjectHandler(rosterSvc)
	classHandler := handler.NewClassHandler(rosterSvc)
	timeSlotHandler := handler.NewTimeSlotHandler(rosterSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if !st.Loaded() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/availability", availabilityHandler.Find)

		api.GET("/state", stateHandler.Get)
		api.POST("/state/reload", stateHandler.Reload)

		api.POST("/leaves", leaveHandler.Create)
		api.PUT("/leaves/:id", leaveHandler.Update)
		api.DELETE("/leaves/:id", leaveHandler.Delete)
		api.POST("/leaves/:id/approve", leaveHandler.Approve)
		api.POST("/leaves/:id/reject", leaveHandler.Reject)

		api.POST("/subs", substituteHandler.Assign)
		api.PUT("/subs/:id", substituteHandler.Reassign)
		api.DELETE("/subs/:id", substituteHandler.Delete)
		api.POST("/subs/:id/respond", substituteHandler.Respond)

		api.POST("/schedules", scheduleHandler.Upsert)
		api.DELETE("/schedules/:id", scheduleHandler.Delete)

		api.POST("/teachers", teacherHandler.Create)
		api.PUT("/teachers/:id", teacherHandler.Update)
		api.DELETE("/teachers/:id", teacherHandler.Delete)

		api.POST("/subjects", subjectHandler.Create)
		api.PUT("/subjects/:id", subjectHandler.Update)
		api.DELETE("/subjects/:id", subjectHandler.Delete)

		api.POST("/classes", classHandler.Create)
		api.PUT("/classes/:id", classHandler.Update)
		api.DELETE("/classes/:id", classHandler.Delete)

		api.POST("/time-slots", timeSlotHandler.Create)
		api.PUT("/time-slots/:id", timeSlotHandler.Update)
		api.DELETE("/time-slots/:id", timeSlotHandler.Delete)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("shutdown incomplete", zap.Error(err))
	}
}
