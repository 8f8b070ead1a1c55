package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sshuster/viral-video-whisperer-pro/analyzer"
	"github.com/sshuster/viral-video-whisperer-pro/auth"
	"github.com/sshuster/viral-video-whisperer-pro/cache"
	"github.com/sshuster/viral-video-whisperer-pro/config"
	"github.com/sshuster/viral-video-whisperer-pro/dashboard"
	"github.com/sshuster/viral-video-whisperer-pro/handler"
	appLogger "github.com/sshuster/viral-video-whisperer-pro/logger"
	"github.com/sshuster/viral-video-whisperer-pro/middleware"
	"github.com/sshuster/viral-video-whisperer-pro/notify"
	redisClient "github.com/sshuster/viral-video-whisperer-pro/redis"
	"github.com/sshuster/viral-video-whisperer-pro/registry"
	"github.com/sshuster/viral-video-whisperer-pro/session"
)

// @title Viral Video Whisperer API
// @version 1.0
// @description Dashboard backend for submitting video links, receiving virality analyses, and managing the site-wide admin registry.

// @host localhost:8080
// @BasePath /

// @tag.name Authentication
// @tag.description Session lifecycle: login, registration, logout

// @tag.name Videos
// @tag.description Submission pipeline, history ledger and dashboard stats

// @tag.name Admin
// @tag.description Site-wide user/video registry and analytics (admin role required)

func main() {
	// Initialize logger
	appLogger.Initialize()

	// Load configuration
	cfg := config.MustLoadConfig()
	log.Info().Msg("Configuration loaded successfully")

	// Initialize Redis client (persisted session storage)
	rdb := redisClient.NewClient(cfg.Redis)

	// Initialize cache (if enabled)
	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		var err error
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize cache")
		}
	} else {
		log.Info().Msg("Cache disabled in configuration")
	}

	notifier := notify.LogNotifier{}

	// Session store: load the persisted session record exactly once
	sessions := session.NewStore(rdb, cfg.Session.Key,
		time.Duration(cfg.Session.LoginDelayMS)*time.Millisecond, notifier)
	loadCtx, loadCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Redis.OperationTimeout)*time.Second)
	sessions.Load(loadCtx)
	loadCancel()

	// Analysis pipeline and admin registry
	generator := analyzer.NewMockGenerator(time.Duration(cfg.Analysis.LatencyMS) * time.Millisecond)
	ctrl := dashboard.NewController(generator, notifier)
	reg := registry.New(notifier)

	// Token manager and handlers
	jwtManager := auth.NewJWTManager(cfg.Session.JWTSecret,
		time.Duration(cfg.Session.TokenTTLMinutes)*time.Minute)
	authHandler := handler.NewAuthHandler(sessions, jwtManager, ctrl)
	dashboardHandler := handler.NewDashboardHandler(ctrl)
	adminHandler := handler.NewAdminHandler(reg)
	systemHandler := handler.NewSystemHandler(rdb, cacheClient)

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	sessionAuth := middleware.NewSessionAuth(jwtManager)

	r.Use(middleware.CORS)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Public routes
	r.HandleFunc("/health", systemHandler.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", systemHandler.CacheMetrics).Methods("GET")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")

	// Authenticated routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(sessionAuth.RequireAuth)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/videos", dashboardHandler.SubmitVideo).Methods("POST")
	api.HandleFunc("/videos", dashboardHandler.GetHistory).Methods("GET")
	api.HandleFunc("/videos/current", dashboardHandler.GetCurrent).Methods("GET")
	api.HandleFunc("/videos/{id}/select", dashboardHandler.SelectVideo).Methods("POST")
	api.HandleFunc("/videos/{id}/qr", dashboardHandler.ShareQR(cacheClient)).Methods("GET")
	api.HandleFunc("/stats", dashboardHandler.GetStats).Methods("GET")

	// Admin routes, role-gated at the boundary
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(sessionAuth.RequireAdmin)
	admin.HandleFunc("/users", adminHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/videos", adminHandler.GetVideos).Methods("GET")
	admin.HandleFunc("/videos/{id}", adminHandler.DeleteVideo).Methods("DELETE")
	admin.HandleFunc("/overview", adminHandler.GetOverview).Methods("GET")

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if cacheClient != nil {
		cacheClient.Close()
	}

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis connection")
	}

	log.Info().Msg("Server stopped gracefully")
}
