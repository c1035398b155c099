package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/liquidity-service/internal/cache"
	"github.com/Dan9191/liquidity-service/internal/config"
	"github.com/Dan9191/liquidity-service/internal/handler"
	"github.com/Dan9191/liquidity-service/internal/integrations/cbr"
	"github.com/Dan9191/liquidity-service/internal/repository"
	"github.com/Dan9191/liquidity-service/internal/scheduler"
	"github.com/Dan9191/liquidity-service/internal/service"
	"github.com/Dan9191/liquidity-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize cache
	var resultCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			logger.Warnf("Redis unavailable at %s, using in-memory cache: %v", cfg.RedisAddr, err)
			rc.Close()
		} else {
			defer rc.Close()
			resultCache = rc
			logger.Infof("Using Redis cache at %s", cfg.RedisAddr)
		}
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, resultCache, logger, cfg)
	cbrClient := cbr.NewCBRClient(cfg, logger)
	h := handler.NewHandler(svc, cbrClient, logger)
	r := handler.NewRouter(h, cfg, logger)

	// Liquidity alerts
	var alerts *scheduler.Scheduler
	if cfg.AlertSchedule != "" {
		alerts, err = scheduler.NewScheduler(cfg.AlertSchedule, svc, email.NewSender(cfg, logger), cbrClient, logger)
		if err != nil {
			logger.Fatalf("Failed to create alert scheduler: %v", err)
		}
		alerts.Start()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if alerts != nil {
		alerts.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	logger.Info("Server exited")
}
