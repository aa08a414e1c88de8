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

	"cyclehub-backend/internal/cache"
	"cyclehub-backend/internal/config"
	"cyclehub-backend/internal/database"
	"cyclehub-backend/internal/handlers"
	"cyclehub-backend/internal/logger"
	"cyclehub-backend/internal/metrics"
	"cyclehub-backend/internal/repository"
	"cyclehub-backend/internal/server"
	"cyclehub-backend/internal/slack"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongo, err := database.Connect(ctx, cfg.MongoURI(), cfg.DBName, log)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongo.Close(closeCtx); err != nil {
			log.Warn("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	m := metrics.New()

	// Initialize repositories
	bikeRepo := repository.NewBikeRepo(mongo.DB)
	employeeRepo := repository.NewEmployeeRepo(mongo.DB)
	addedItemRepo := repository.NewAddedItemRepo(mongo.DB)
	userRepo := repository.NewUserRepo(mongo.DB)

	var cycles handlers.CycleStore = repository.NewCycleRepo(mongo.DB)
	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, cycle cache will fall back to MongoDB", zap.Error(err))
		}
		cycles = repository.NewCachedCycleRepo(cycles, cache.NewRedis(rdb), cfg.CacheTTL, log, m.ObserveCacheLookup)
		log.Info("cycle cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	// Ensure indexes
	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		log.Warn("failed to create user indexes", zap.Error(err))
	}
	if err := addedItemRepo.EnsureIndexes(indexCtx); err != nil {
		log.Warn("failed to create added item indexes", zap.Error(err))
	}

	var notifier slack.Notifier = slack.NewMockSlack(log)
	if cfg.SlackWebhookURL != "" {
		notifier = slack.NewWebhook(cfg.SlackWebhookURL)
	}
	audit := slack.NewAsync(notifier, log)

	router := server.NewRouter(server.Deps{
		Log:            log,
		Metrics:        m,
		Notifier:       audit,
		DB:             mongo,
		Bikes:          bikeRepo,
		Employees:      employeeRepo,
		Cycles:         cycles,
		AddedItems:     addedItemRepo,
		Users:          userRepo,
		RequestTimeout: cfg.RequestTimeout,
		AdminJWTSecret: cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server is running", zap.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := audit.Wait(shutdownCtx); err != nil {
		log.Warn("audit messages still pending at shutdown", zap.Error(err))
	}
	return nil
}
