package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ngo-portal/portal-backend/config"
	"github.com/ngo-portal/portal-backend/internal/bootstrap"
	"github.com/ngo-portal/portal-backend/internal/metrics"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/notify"
	"github.com/ngo-portal/portal-backend/internal/portal/seed"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

const serviceName = "ngo-portal"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	bundle, err := locale.Load(cfg.App.DefaultLocale)
	if err != nil {
		return err
	}

	seedData, err := seed.Load(cfg.Sessions.SeedFile)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	backend := session.MemoryBackend()
	var rdb *redis.Client
	var publisher func(string) notify.Notifier
	if cfg.Redis.Addr != "" {
		rdb, err = bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		backend = session.RedisBackend(rdb, cfg.Sessions.IdleTTL)
		publisher = func(id string) notify.Notifier {
			return notify.NewRedisPublisher(rdb, id, logger)
		}
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Info("REDIS_ADDR not set, keeping workspaces in memory")
	}

	manager, err := session.NewManager(session.Config{
		Backend:   backend,
		Bundle:    bundle,
		Seed:      seedData,
		Logger:    logger,
		Recorder:  m,
		Publisher: publisher,
		OnCount:   m.SetActiveSessions,
		IdleTTL:   cfg.Sessions.IdleTTL,

		MaxWorkspaces: cfg.Sessions.MaxWorkspaces,
	})
	if err != nil {
		return err
	}

	sweeper, err := session.NewSweeper(manager, cfg.Sessions.SweepSpec, logger)
	if err != nil {
		return err
	}
	sweeper.Start()

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Logger:         logger,
		Manager:        manager,
		Bundle:         bundle,
		Metrics:        m,
		Gatherer:       registry,
		Redis:          rdb,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("backend", backend.Name),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	sweeper.Stop(shutdownCtx)
	if err := manager.Close(shutdownCtx); err != nil {
		logger.Warn("closing workspaces", zap.Error(err))
	}
	return nil
}
