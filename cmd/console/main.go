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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/admin-console/internal/api"
	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/service"
	"github.com/99minutos/admin-console/internal/infrastructure/authority"
	mongostore "github.com/99minutos/admin-console/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/admin-console/internal/infrastructure/db/redis"
	"github.com/99minutos/admin-console/internal/infrastructure/storage"
	"github.com/99minutos/admin-console/internal/pkg/config"
	"github.com/99minutos/admin-console/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "admin-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	kv, checks, closeStore, err := openStorage(ctx, cfg, logger.Component("storage"))
	if err != nil {
		return err
	}
	defer closeStore()

	client := authority.NewClient(authority.Config{
		BaseURL: cfg.API.BaseURL,
		Prefix:  cfg.API.Prefix,
		Timeout: cfg.API.Timeout,
	}, logger.Component("authority"))

	gateway := authority.NewGateway(client, logger.Component("authority"))
	sessions := service.NewSessionStore(
		gateway,
		kv,
		logger.Component("session"),
		cfg.API.VerifyTimeout,
	)

	e := api.NewRouter(api.Dependencies{
		Sessions:  sessions,
		Customers: service.NewCustomerService(authority.NewCustomerClient(client, sessions), logger.Component("customers")),
		Users:     service.NewUserService(authority.NewUserClient(client, sessions), logger.Component("users")),
		Recovery:  gateway,
		Checks:    checks,
		Registry:  prometheus.NewRegistry(),
	}, logger.Component("http"))

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sessions.Bootstrap(gctx)
		log.Info().Str("addr", addr).Str("api", cfg.API.BaseURL).Msg("console listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		sessions.Wait()
		log.Info().Msg("console shut down")
		return err
	})

	return g.Wait()
}

// openStorage returns the configured session storage, its readiness checks and
// a closer.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.KeyValueStore, map[string]handler.Check, func(), error) {
	noop := func() {}

	switch cfg.Session.Backend {
	case config.BackendMemory:
		log.Warn().Msg("memory session storage: sessions will not survive a restart")
		return storage.NewMemory(), nil, noop, nil

	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		checks := map[string]handler.Check{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis session storage")
		return redisstore.NewKVStore(client, cfg.Session.KeyPrefix), checks, func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, noop, err
		}
		checks := map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
		log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("mongo session storage")
		return mongostore.NewKVStore(db, cfg.Mongo.Collection), checks, closeFn, nil

	default:
		log.Info().Str("path", cfg.Session.File).Msg("file session storage")
		return storage.NewFile(cfg.Session.File), nil, noop, nil
	}
}
