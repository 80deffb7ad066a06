package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/localabilities/portal-api/internal/config"
	"github.com/localabilities/portal-api/internal/database"
	"github.com/localabilities/portal-api/internal/handler"
	"github.com/localabilities/portal-api/internal/identity"
	"github.com/localabilities/portal-api/internal/logger"
	"github.com/localabilities/portal-api/internal/mail"
	"github.com/localabilities/portal-api/internal/metrics"
	middlewarepkg "github.com/localabilities/portal-api/internal/middleware"
	"github.com/localabilities/portal-api/internal/repository"
	"github.com/localabilities/portal-api/internal/router"
	"github.com/localabilities/portal-api/internal/service"
	"github.com/localabilities/portal-api/internal/storage"
	"github.com/localabilities/portal-api/internal/worker"
)

func main() {
	log := logger.Setup(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	identityClient := identity.NewClient(httpClient, cfg.IdentityURL, cfg.IdentityAnonKey)
	store := storage.NewClient(httpClient, cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket)
	mailer := mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)

	registry := prometheus.NewRegistry()
	recorder := metrics.NewCollector(registry)

	companiesRepo := repository.NewPGXCompaniesRepository(pool)
	facilitiesRepo := repository.NewPGXFacilitiesRepository(pool)
	uploadsRepo := repository.NewPGXUploadsRepository(pool)
	idempotencyRepo := repository.NewPGXIdempotencyRepository(pool)
	attemptsRepo := repository.NewPGXRegistrationsRepository(pool)

	profileService := service.NewProfileService(companiesRepo, facilitiesRepo)
	uploadService := service.NewUploadService(store, uploadsRepo, log)
	claimService := service.NewClaimService(store, uploadsRepo, recorder, log)
	registrationService := service.NewRegistrationService(identityClient, claimService, profileService, attemptsRepo, log)
	contactService := service.NewContactService(mailer, cfg.SMTP.User, cfg.SMTP.To)

	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(identityClient),
		Profile:  handler.NewProfileHandler(profileService),
		Contact:  handler.NewContactHandler(contactService, recorder),
		Upload:   handler.NewUploadHandler(uploadService, recorder),
		Register: handler.NewRegisterHandler(registrationService, recorder),
		Pages:    handler.NewPagesHandler(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(echoMiddleware.Recover())

	sessions := middlewarepkg.NewSessionParser(cfg.IdentityJWTSecret)
	router.Register(e, cfg, sessions, idempotencyRepo, recorder, registry, handlers)

	sweeper := worker.NewSweeper(uploadsRepo, idempotencyRepo, store, recorder, log,
		cfg.UploadTTL, cfg.IdempotencyTTL, cfg.SweepInterval)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go sweeper.Run(sweepCtx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Info("server started", "port", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		stopSweeper()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	stopSweeper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
}
