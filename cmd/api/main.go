package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/bookshare/internal/auth"
	"github.com/BradenHooton/bookshare/internal/background"
	"github.com/BradenHooton/bookshare/internal/config"
	"github.com/BradenHooton/bookshare/internal/database"
	"github.com/BradenHooton/bookshare/internal/handlers"
	middlewareCustom "github.com/BradenHooton/bookshare/internal/middleware"
	"github.com/BradenHooton/bookshare/internal/repositories"
	"github.com/BradenHooton/bookshare/internal/routes"
	"github.com/BradenHooton/bookshare/internal/services"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
	pkglogger "github.com/BradenHooton/bookshare/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	cardRepo := repositories.NewCardRepository(db)

	// Login throttling and its sweeper
	loginLimiter := services.NewLoginRateLimiter(services.LoginRateLimitConfig{
		MaxAttempts:   cfg.Auth.LoginMaxAttempts,
		Window:        cfg.Auth.LoginWindow,
		BlockDuration: cfg.Auth.LoginBlockDuration,
	}, nil)
	cleanupManager := background.NewCleanupManager(loginLimiter, logger, cfg.Auth.LimiterCleanupInterval)

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger, cfg.Server.Env)

	// Timing delay for auth security
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelay:   time.Duration(cfg.Auth.TimingBaseDelayMs) * time.Millisecond,
		RandomDelay: time.Duration(cfg.Auth.TimingRandomDelayMs) * time.Millisecond,
	})

	// Moderation notices go through SES when a sender address is configured
	var notifier services.ModerationNotifier
	if cfg.Email.Enabled() {
		sesCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		sesNotifier, err := services.NewSESModerationNotifier(sesCtx, cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		cancel()
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = sesNotifier
	} else {
		logger.Info("EMAIL_FROM not set, moderation notices are only logged")
		notifier = services.NewLogModerationNotifier(logger)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, loginLimiter, tokenManager, services.AuthServiceConfig{
		BcryptCost: cfg.Auth.BcryptCost,
		Timing:     timingDelay,
	}, logger, auditLogger)
	cardService := services.NewCardService(cardRepo, userRepo, notifier, logger, auditLogger)
	userService := services.NewUserService(userRepo, logger)
	adminService := services.NewAdminService(userRepo, logger, auditLogger)

	// Bootstrap the administrator if configured
	if cfg.Admin.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := authService.EnsureAdmin(ctx, services.RegisterInput{
			Login:    cfg.Admin.Login,
			Password: cfg.Admin.Password,
			FullName: cfg.Admin.FullName,
			Phone:    cfg.Admin.Phone,
			Email:    cfg.Admin.Email,
		})
		cancel()
		if err != nil {
			logger.Error("failed to ensure admin user", slog.Any("error", err))
		} else if created {
			logger.Info("admin user created", slog.String("login", cfg.Admin.Login))
		}
	}

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, routes.Dependencies{
		AuthHandler:    handlers.NewAuthHandler(authService, ipConfig),
		CardHandler:    handlers.NewCardHandler(cardService),
		ProfileHandler: handlers.NewProfileHandler(userService, cardService),
		AdminHandler:   handlers.NewAdminHandler(adminService, cardService),
		TokenManager:   tokenManager,
		Users:          userRepo,
		Health:         db,
		RateLimit: middlewareCustom.RateLimitConfig{
			Requests: cfg.RateLimit.APIRequests,
			Window:   cfg.RateLimit.APIWindow,
			IPConfig: ipConfig,
		},
		Logger: logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
