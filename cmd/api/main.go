package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/twendycreate/twendy-api/internal/auth"
	"github.com/twendycreate/twendy-api/internal/background"
	"github.com/twendycreate/twendy-api/internal/config"
	"github.com/twendycreate/twendy-api/internal/database"
	"github.com/twendycreate/twendy-api/internal/handlers"
	middlewareCustom "github.com/twendycreate/twendy-api/internal/middleware"
	"github.com/twendycreate/twendy-api/internal/repositories"
	"github.com/twendycreate/twendy-api/internal/routes"
	"github.com/twendycreate/twendy-api/internal/services"
	pkglogger "github.com/twendycreate/twendy-api/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration. A missing or weak signing secret is fatal here.
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("email_provider", cfg.Email.Provider))

	// Run schema migrations before accepting traffic
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.RunMigrations(migrateCtx, cfg.Database.DSN()); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	servicoRepo := repositories.NewServicoRepository(db)
	funcionarioRepo := repositories.NewFuncionarioRepository(db)

	// Cleanup manager clears expired reset codes
	cleanupManager := background.NewCleanupManager(userRepo, logger, cfg.Auth.CleanupInterval)

	// Token manager signs and verifies session tokens
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenExpiry)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Google identity verifier: constructed eagerly at startup so the
	// not-configured case is an explicit outcome, never a lazy race.
	var googleVerifier auth.IdentityVerifier
	if cfg.Auth.GoogleClientID != "" {
		startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		gv, err := auth.NewGoogleVerifier(startupCtx, cfg.Auth.GoogleClientID)
		cancel()
		if err != nil {
			logger.Error("failed to initialize google verifier", slog.Any("error", err))
			os.Exit(1)
		}
		googleVerifier = gv
		logger.Info("google sign-in enabled")
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}

	// Reset-code notifier (smtp, ses or log)
	notifier, err := services.NewNotifier(&cfg.Email, logger)
	if err != nil {
		logger.Error("failed to initialize notifier", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	authService := services.NewAuthService(
		userRepo,
		servicoRepo,
		funcionarioRepo,
		tokenManager,
		googleVerifier,
		notifier,
		cfg.Auth.GoogleSessionTTL,
		cfg.Email.SendTimeout,
		logger,
		auditLogger,
	)
	userService := services.NewUserService(userRepo, logger, auditLogger)
	servicoService := services.NewServicoService(servicoRepo, userRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	servicoHandler := handlers.NewServicoHandler(servicoService)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, authHandler, userHandler, servicoHandler, tokenManager, userRepo)

	// Root info endpoint
	router.Get("/", handlers.Info(cfg.Server.Env, cfg.Server.Version))

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
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

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
