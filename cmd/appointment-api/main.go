package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/appointment-api/api/swagger"
	"github.com/noah-isme/appointment-api/internal/handler"
	"github.com/noah-isme/appointment-api/internal/middleware"
	"github.com/noah-isme/appointment-api/internal/models"
	"github.com/noah-isme/appointment-api/internal/repository"
	"github.com/noah-isme/appointment-api/internal/service"
	"github.com/noah-isme/appointment-api/pkg/cache"
	"github.com/noah-isme/appointment-api/pkg/config"
	"github.com/noah-isme/appointment-api/pkg/database"
	"github.com/noah-isme/appointment-api/pkg/jobs"
	"github.com/noah-isme/appointment-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/appointment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/appointment-api/pkg/middleware/requestid"
)

// @title Appointment API
// @version 1.0.0
// @description Appointment slot generation, availability and booking service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	// Repositories.
	typeRepo := repository.NewAppointmentTypeRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	hoursRepo := repository.NewWorkingHoursRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	// Services.
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Slots.CacheTTL, logr, cfg.Slots.CacheEnabled)
	slotSvc := service.NewSlotService(typeRepo, hoursRepo, meetingRepo, cacheSvc, metrics, logr)
	typeSvc := service.NewAppointmentTypeService(typeRepo, staffRepo, cacheSvc, validate, logr)
	staffSvc := service.NewStaffService(staffRepo, hoursRepo, cacheSvc, validate, logr)
	agendaSvc := service.NewAgendaService(staffRepo, meetingRepo, typeRepo, cfg.Agenda.HorizonDays, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	refreshQueue := jobs.NewQueue("slot-grid-refresh", service.RefreshHandler(slotSvc, typeRepo, logr), jobs.QueueConfig{
		Workers:    cfg.Slots.RefreshWorkers,
		BufferSize: cfg.Slots.RefreshQueueSize,
		Logger:     logr,
	})
	metrics.RegisterQueueDepth("slot-grid-refresh", refreshQueue.Len)
	bookingSvc := service.NewBookingService(typeRepo, hoursRepo, meetingRepo, cacheSvc, refreshQueue, validate, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	slotHandler := handler.NewSlotHandler(slotSvc)
	typeHandler := handler.NewAppointmentTypeHandler(typeSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	staffHandler := handler.NewStaffHandler(staffSvc, agendaSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
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
		api.POST("/auth/login", authHandler.Login)

		// Public booking surface: visitors browse slots and book without auth.
		api.GET("/appointment-types/:id/slots", slotHandler.Grid)
		api.POST("/bookings", bookingHandler.Book)

		authed := api.Group("", middleware.JWT(authSvc))
		{
			authed.GET("/auth/me", authHandler.Me)

			authed.GET("/appointment-types", typeHandler.List)
			authed.GET("/appointment-types/:id", typeHandler.Get)
			authed.POST("/appointment-types", typeHandler.Create)
			authed.PUT("/appointment-types/:id", typeHandler.Update)
			authed.DELETE("/appointment-types/:id", middleware.RequireRoles(models.RoleAdmin), typeHandler.Delete)
			authed.POST("/appointment-types/custom", typeHandler.CreateCustom)
			authed.POST("/appointment-types/work-hours", typeHandler.SearchCreateWorkHours)

			authed.GET("/staff", staffHandler.List)
			authed.GET("/staff/:id", staffHandler.Get)

			admin := authed.Group("", middleware.RequireRoles(models.RoleAdmin))
			{
				admin.POST("/staff", staffHandler.Create)
				admin.PUT("/staff/:id", staffHandler.Update)
			}

			authed.GET("/staff/:id/working-hours", staffHandler.WorkingHours)
			authed.PUT("/staff/:id/working-hours", staffHandler.SetWorkingHours)
			if cfg.Agenda.ExportEnabled {
				authed.GET("/staff/:id/agenda/export", staffHandler.ExportAgenda)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refreshQueue.Start(ctx)
	defer refreshQueue.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
