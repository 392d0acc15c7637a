package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/frontdesk/frontdesk-api/config"
	"github.com/frontdesk/frontdesk-api/internal/handler"
	catalogHandler "github.com/frontdesk/frontdesk-api/internal/handler/catalog"
	scheduleHandler "github.com/frontdesk/frontdesk-api/internal/handler/schedule"
	"github.com/frontdesk/frontdesk-api/internal/middleware"
	"github.com/frontdesk/frontdesk-api/internal/repository/postgres"
	"github.com/frontdesk/frontdesk-api/internal/router"
	catalogService "github.com/frontdesk/frontdesk-api/internal/service/catalog"
	scheduleService "github.com/frontdesk/frontdesk-api/internal/service/schedule"
	"github.com/frontdesk/frontdesk-api/pkg/auth"
	"github.com/frontdesk/frontdesk-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)

	scheduleRepo := postgres.NewScheduleRepository(base)
	typeRepo := postgres.NewAppointmentTypeRepository(base)
	clientRepo := postgres.NewClientRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	roomRepo := postgres.NewRoomRepository(base)

	scheduleSvc := scheduleService.NewService(scheduleRepo, typeRepo, appLogger)
	catalogSvc := catalogService.NewService(clientRepo, patientRepo, doctorRepo, roomRepo, typeRepo)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler()
	scheduleH := scheduleHandler.NewHandler(scheduleSvc)
	catalogH := catalogHandler.NewHandler(catalogSvc)

	r := router.NewRouter(authMiddleware, scheduleH, catalogH, h, router.RouterConfig{
		RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst: cfg.RateLimit.Burst,
		CORSConfig:    corsConfig(cfg),
		MetricsPrefix: cfg.Monitoring.MetricsPrefix,
		RequireAuth:   cfg.Security.RequireAuth,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		cors.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		cors.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		cors.AllowHeaders = cfg.Security.AllowedHeaders
	}
	return cors
}
