package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/access"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/config"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/database"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/display"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/logging"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/reader"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/routes"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/services"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/session"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/signal"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	logging.AttachDatabase(stdout, pgLogHandler)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Peripherals
	bus, closeBus, err := openSignalBus(cfg)
	if err != nil {
		slog.Error("signal backend unavailable", "backend", cfg.SignalBackend, "error", err)
		os.Exit(1)
	}
	tokenReader := reader.NewChannel(&reader.SpoolDevice{Path: cfg.ReaderSpoolPath}, cfg.ReaderPollInterval)
	panel := openDisplay(cfg)
	slog.Info("peripherals ready",
		"signal_backend", cfg.SignalBackend,
		"reader_device", cfg.ReaderDevice,
		"display_sinks", cfg.DisplaySinks,
	)

	// Workflows
	store := storage.NewGormStore(db)
	m := metrics.New(prometheus.DefaultRegisterer)
	opts := access.Options{
		ScanTimeout: cfg.ScanTimeout,
		Dwell:       cfg.DisplayDwell,
		Metrics:     m,
	}
	enroller := access.NewEnroller(store, tokenReader, panel, opts)
	verifier := access.NewVerifier(store, tokenReader, bus, bus, panel, opts)

	// Services
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	registrationService := services.NewRegistrationService(store, enroller, m)
	authService := services.NewAuthService(store)

	// Handlers
	homeHandler := handlers.NewHomeHandler()
	authHandler := handlers.NewAuthHandler(registrationService, authService, sessions, panel, cfg.AppEnv == "production")
	verifyHandler := handlers.NewVerifyHandler(verifier)
	enrollmentHandler := handlers.NewEnrollmentHandler(enroller)
	healthHandler := handlers.NewHealthHandler(store)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPTimeout(),
		IdleTimeout:  60 * time.Second,
		ErrorHandler: routes.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, sessions, homeHandler, authHandler, verifyHandler, enrollmentHandler, healthHandler, promhttp.Handler())

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	ossignal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.HTTPTimeout()); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	enroller.Stop()
	panel.Clear()

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := closeBus(); err != nil {
		slog.Error("signal backend close error", "error", err)
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func openSignalBus(cfg *config.Config) (signal.Bus, func() error, error) {
	noop := func() error { return nil }
	switch cfg.SignalBackend {
	case config.SignalRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := signal.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return signal.NewRedisChannel(client, cfg.SignalKeyPrefix), client.Close, nil
	case config.SignalMemory:
		return signal.NewMemoryChannel(), noop, nil
	case config.SignalFile:
		return signal.NewFileChannel(cfg.PresencePath, cfg.ActuatorPath), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown signal backend %q", cfg.SignalBackend)
	}
}

func openDisplay(cfg *config.Config) display.Sink {
	var sinks display.Multi
	for _, name := range cfg.DisplaySinks {
		switch name {
		case config.SinkConsole:
			sinks = append(sinks, display.NewConsoleSink(os.Stderr))
		case config.SinkLog:
			sinks = append(sinks, display.LogSink{})
		case config.SinkDevice:
			sinks = append(sinks, display.NewDeviceSink(&display.CharLCD{Path: cfg.DisplayDevicePath}))
		}
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return sinks
}
