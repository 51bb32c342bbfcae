package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/loginlab/internal/api"
	"github.com/vytor/loginlab/internal/config"
	"github.com/vytor/loginlab/internal/content"
	"github.com/vytor/loginlab/internal/db"
	"github.com/vytor/loginlab/internal/jobs"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/repository/sqlite"
	"github.com/vytor/loginlab/internal/services"
	"github.com/vytor/loginlab/internal/session"
	"github.com/vytor/loginlab/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Login Lab Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("view_ttl=%s views_per_session=%d max_views=%d", cfg.ViewTTL, cfg.ViewsPerSession, cfg.MaxViews)
	log.Debug("sweep_interval=%s", cfg.SweepInterval)
	log.Debug("sweep_worker_count=%d", cfg.SweepWorkerCount)
	log.Debug("sweep_queue_size=%d", cfg.SweepQueueSize)
	log.Debug("achievement_display=%s", cfg.AchievementDisplay)
	log.Debug("login_attempt_limit=%d", cfg.LoginAttemptLimit)
	log.Debug("cookie_secure=%t", cfg.CookieSecure)
	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories and demo accounts
	accountRepo := sqlite.NewAccountRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	if err := services.SeedAccounts(logger.NewContext(ctx, log), accountRepo, cfg.BcryptCost); err != nil {
		log.Error("failed to seed demo accounts: %v", err)
		os.Exit(1)
	}

	catalog, err := content.Load()
	if err != nil {
		log.Error("failed to load content catalog: %v", err)
		os.Exit(1)
	}

	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	views := session.NewStore(cfg.ViewTTL, session.WithLimits(cfg.ViewsPerSession, cfg.MaxViews))

	srv := &api.Server{
		DB:                 database,
		Catalog:            catalog,
		Sessions:           session.NewManager(cfg.SessionSecret, session.DefaultLifetime, cfg.CookieSecure),
		Views:              views,
		SafeLoginService:   services.NewSafeLoginService(accountRepo, attemptRepo, cfg.LoginAttemptLimit),
		UnsafeLoginService: services.NewUnsafeLoginService(accountRepo),
		Templates:          tmpl,
		AchievementDisplay: cfg.AchievementDisplay,
	}

	// Background sweeping of idle views
	sweepPool := worker.NewPool(cfg.SweepWorkerCount, cfg.SweepQueueSize)
	sweepPool.Start(ctx)
	queue := jobs.NewWorkerQueue(sweepPool, views, attemptRepo, 2*cfg.ViewTTL)
	go jobs.RunSweeper(ctx, queue, cfg.SweepInterval)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping sweeper")
	cancel()
	sweepPool.Stop()

	log.Debug("closing views")
	views.Close()

	log.Info("===========================================")
	log.Info("Login Lab Server Stopped")
	log.Info("===========================================")
}
