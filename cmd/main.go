package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amanzhol04/esports-portal/config"
	"github.com/Amanzhol04/esports-portal/db"
	"github.com/Amanzhol04/esports-portal/handlers"
	"github.com/Amanzhol04/esports-portal/live"
	"github.com/Amanzhol04/esports-portal/metrics"
	"github.com/Amanzhol04/esports-portal/repositories"
	api "github.com/Amanzhol04/esports-portal/routes"
	"github.com/Amanzhol04/esports-portal/services"
	"github.com/Amanzhol04/esports-portal/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const metricsRefreshInterval = 30 * time.Second // How often the gauge refresher runs

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Применение миграций
	if err := db.RunMigrations(dbConn, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Инициализация загрузчика файлов (Cloudflare R2); без конфигурации
	// загрузки изображений просто отключены
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("object storage not configured, image uploads disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService, err := services.NewAuthService(cfg.AdminPassword, cfg.JWTSecretKey)
	if err != nil {
		logger.Error("failed to initialize auth service", slog.Any("error", err))
		os.Exit(1)
	}
	registrationService := services.NewRegistrationService(registrationRepo, tournamentRepo, cfg.MaxTeamMembers)
	tournamentService := services.NewTournamentService(tournamentRepo, uploader)
	gameService := services.NewGameService(gameRepo, uploader)
	userService := services.NewUserService(userRepo, registrationRepo)
	exportService := services.NewExportService(registrationService)
	dashboardService := services.NewDashboardService(userRepo, tournamentRepo, registrationRepo)
	emailService := services.NewEmailService(cfg)
	logger.Info("Services initialized")

	// Периодическое обновление gauge-метрики числа заявок по турнирам
	go func() {
		ticker := time.NewTicker(metricsRefreshInterval)
		defer ticker.Stop()
		logger.Info("registration metrics refresher started", slog.Duration("interval", metricsRefreshInterval))

		refresh := func() {
			counts, err := registrationService.GetCounts(context.Background(), nil)
			if err != nil {
				logger.Error("metrics refresher: failed to load counts", slog.Any("error", err))
				return
			}
			metrics.RegisteredTeams.Reset()
			for id, count := range counts {
				metrics.RegisteredTeams.WithLabelValues(id).Set(float64(count))
			}
		}

		// Run once immediately at startup, then on ticker
		refresh()
		for range ticker.C {
			refresh()
		}
	}()

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Game:         handlers.NewGameHandler(gameService),
		Registration: handlers.NewRegistrationHandler(registrationService, tournamentService, emailService, wsHub, logger),
		User:         handlers.NewUserHandler(userService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Export:       handlers.NewExportHandler(exportService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, []byte(cfg.JWTSecretKey), cfg.CORSAllowedOrigins)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
