package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/profile-service/internal/cache"
	"github.com/Dan9191/profile-service/internal/config"
	"github.com/Dan9191/profile-service/internal/handler"
	"github.com/Dan9191/profile-service/internal/integrations/cbr"
	"github.com/Dan9191/profile-service/internal/refrate"
	"github.com/Dan9191/profile-service/internal/repository"
	"github.com/Dan9191/profile-service/internal/service"
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

	repo := repository.NewRepository(db)
	if cfg.AutoMigrate {
		if err := repo.Migrate(context.Background()); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Reference rate cache
	var rateCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr)
		defer redisCache.Close()
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Warnf("Redis unavailable at %s, using in-memory cache: %v", cfg.RedisAddr, err)
		} else {
			rateCache = redisCache
		}
	}

	// Initialize layers
	svc := service.NewService(repo, logger)
	rates := refrate.NewService(cbr.NewClient(cfg.CBRURL, logger), rateCache, cfg.KeyRateMargin, logger)
	if err := rates.Start(cfg.KeyRateSchedule); err != nil {
		logger.Fatalf("Failed to start reference rate refresh: %v", err)
	}
	defer rates.Stop()
	h := handler.NewHandler(svc, rates, repo, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
		return
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	logger.Info("Server exited")
}
