package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/handlers"
	"law_office_app_go/logger"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/services/jobs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	log, syncLog := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: !cfg.IsProduction(),
	})
	defer syncLog()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatal("failed to initialize database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := services.SeedAdminFromEnv(db.DB); err != nil {
		log.Fatal("failed to seed admin user", zap.Error(err))
	}

	services.InitializeStorage(cfg)

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal("failed to initialize session store", zap.String("store", cfg.SessionStore), zap.Error(err))
	}
	sessions := services.NewSessionManager(store, cfg.SessionSecret, cfg.SessionDuration)

	scheduler, err := jobs.StartScheduler(db.DB, cfg, sessions, handlers.SecurityMonitor)
	if err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	e := handlers.NewServer(cfg, sessions, log)

	go func() {
		log.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newSessionStore picks the session backend named by SESSION_STORE
func newSessionStore(cfg *config.Config) (services.SessionStore, error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory, "":
		return services.NewMemorySessionStore(), nil
	case config.SessionStoreDatabase:
		return services.NewDBSessionStore(db.DB), nil
	case config.SessionStoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return services.NewRedisSessionStore(client), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
