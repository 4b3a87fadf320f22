package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/carewire/clinical-api/internal/config"
	"github.com/carewire/clinical-api/internal/handler"
	doctorHandler "github.com/carewire/clinical-api/internal/handler/doctor"
	hospitalHandler "github.com/carewire/clinical-api/internal/handler/hospital"
	patientHandler "github.com/carewire/clinical-api/internal/handler/patient"
	prescriptionHandler "github.com/carewire/clinical-api/internal/handler/prescription"
	"github.com/carewire/clinical-api/internal/middleware"
	"github.com/carewire/clinical-api/internal/repository/postgres"
	"github.com/carewire/clinical-api/internal/router"
	authService "github.com/carewire/clinical-api/internal/service/auth"
	doctorService "github.com/carewire/clinical-api/internal/service/doctor"
	hospitalService "github.com/carewire/clinical-api/internal/service/hospital"
	patientService "github.com/carewire/clinical-api/internal/service/patient"
	prescriptionService "github.com/carewire/clinical-api/internal/service/prescription"

	appointmentService "github.com/carewire/clinical-api/internal/service/appointment"
	"github.com/carewire/clinical-api/pkg/logger"
	"github.com/carewire/clinical-api/pkg/token"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Logging.Pretty,
	})

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	hospitalRepo := postgres.NewHospitalRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	admissionRepo := postgres.NewAdmissionRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)

	// Login throttling is optional; without Redis logins are unthrottled.
	var throttle *authService.LoginThrottle
	if cfg.Redis.URL != "" {
		throttle, err = authService.NewLoginThrottle(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
	}

	// Initialize services
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)
	authSvc := authService.NewService(hospitalRepo, doctorRepo, patientRepo, issuer, throttle)
	hospitalSvc := hospitalService.NewService(authSvc, hospitalRepo, doctorRepo, patientRepo, admissionRepo)
	doctorSvc := doctorService.NewService(authSvc, doctorRepo, admissionRepo)
	patientSvc := patientService.NewService(authSvc, patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, patientRepo, cfg.Features.StrictPrescriptionScope)

	// Initialize middleware and handlers
	session := middleware.NewSessionMiddleware(issuer, cfg.Cookie.Name, doctorRepo, patientRepo)
	cookies := handler.NewCookieWriter(cfg.Cookie, cfg.JWT.Expiry)

	hospitalH := hospitalHandler.NewHandler(hospitalSvc, cookies)
	doctorH := doctorHandler.NewHandler(doctorSvc, appointmentSvc, cookies)
	patientH := patientHandler.NewHandler(patientSvc, cookies)
	prescriptionH := prescriptionHandler.NewHandler(prescriptionSvc)

	// The metrics endpoint serves the same registry the router observes into.
	registry := prometheus.NewRegistry()
	healthH := handler.NewHealthHandler(db, throttle, registry)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Security.AllowedHeaders
	}

	r := router.NewRouter(
		session,
		hospitalH,
		doctorH,
		patientH,
		prescriptionH,
		healthH,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimitRPS:     cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst:   cfg.RateLimit.Burst,
			CORSConfig:       corsConfig,
			MetricsPrefix:    "clinical_api",
			Registry:         registry,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
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
