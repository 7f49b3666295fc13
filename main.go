package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagestream/cache"
	"stagestream/config"
	"stagestream/handlers"
	"stagestream/middleware"
	"stagestream/repositories"
	"stagestream/routes"
	"stagestream/services"
	"stagestream/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Environment:  cfg.Env,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb := cache.NewClient(ctx, cfg.RedisURL)

	// Initialize repositories
	adminRepo := repositories.NewAdminRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	postRepo := repositories.NewPostRepository(db)

	// Initialize services
	authService := services.NewAuthService(adminRepo, sessionRepo, services.AuthConfig{
		StageKey:   cfg.StageKey,
		SigningKey: cfg.SessionSigningKey(),
		SessionTTL: cfg.SessionTTL,
		BcryptCost: cfg.BcryptCost,
	})
	postService := services.NewPostService(postRepo)

	// Initialize handlers
	h := routes.Handlers{
		Auth: handlers.NewAuthHandler(authService, handlers.CookieOptions{
			Name:   config.SessionCookieName,
			TTL:    cfg.SessionTTL,
			Secure: cfg.IsProduction(),
		}),
		Post:   handlers.NewPostHandler(postService),
		Page:   handlers.NewPageHandler(postService),
		Health: handlers.NewHealthHandler(db),
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies()); err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.Tracing(),
		middleware.CORS(cfg.Origins()),
	)

	if err := routes.Register(router, h, routes.Options{
		SessionGuard: middleware.SessionRequired(authService, config.SessionCookieName),
		LoginLimiter: middleware.RateLimit(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow, "login"),
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		middleware.Logger.Info("server starting", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	middleware.Logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		middleware.Logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		middleware.Logger.Error("tracing shutdown failed", slog.String("error", err.Error()))
	}
}
