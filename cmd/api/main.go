package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/shamsoul-ali/THE-VAULT/api/controllers"
	"github.com/shamsoul-ali/THE-VAULT/api/routes"
	"github.com/shamsoul-ali/THE-VAULT/internal/carimages"
	"github.com/shamsoul-ali/THE-VAULT/internal/cars"
	"github.com/shamsoul-ali/THE-VAULT/internal/profiles"
	"github.com/shamsoul-ali/THE-VAULT/internal/tours"
	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/env"
	"github.com/shamsoul-ali/THE-VAULT/pkg/instance"
	"github.com/shamsoul-ali/THE-VAULT/pkg/locks"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/metrics"
	"github.com/shamsoul-ali/THE-VAULT/pkg/migrate"
	pkgredis "github.com/shamsoul-ali/THE-VAULT/pkg/redis"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage/cos"
	"github.com/shamsoul-ali/THE-VAULT/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		var closeErr error
		for i := len(closers) - 1; i >= 0; i-- {
			closeErr = multierr.Append(closeErr, closers[i]())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error releasing resources", closeErr)
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	curationMetrics := metrics.NewCurationMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	rawStore, err := newObjectStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap object store", err)
		os.Exit(1)
	}
	store := storage.NewInstrumented(rawStore, curationMetrics)

	pingers := map[string]controllers.Pinger{
		"db":      dbClient,
		"storage": store,
	}

	var (
		locker      locks.Locker = locks.NewLocal()
		idempotency pkgredis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)

		redisLocker, err := locks.NewRedis(redisClient, cfg.Media.LockTTL, logg)
		if err != nil {
			logg.Error(ctx, "failed to create redis locker", err)
			os.Exit(1)
		}
		locker = redisLocker
		idempotency = redisClient
		pingers["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, using in-process locks and no idempotency replay")
	}

	carService, err := cars.NewService(cars.NewRepository(dbClient.DB()), dbClient, store, locker, cfg.Storage.Bucket, logg)
	if err != nil {
		logg.Error(ctx, "failed to create car service", err)
		os.Exit(1)
	}

	imageService, err := carimages.NewService(carimages.ServiceParams{
		Repo:          carimages.NewRepository(dbClient.DB()),
		DB:            dbClient,
		Locker:        locker,
		Store:         store,
		Bucket:        cfg.Storage.Bucket,
		Metrics:       curationMetrics,
		Logger:        logg,
		GalleryLimit:  cfg.Media.GalleryLimit,
		UploadTimeout: cfg.Media.UploadTimeout,
		MaxImageBytes: cfg.Media.MaxImageBytes(),
	})
	if err != nil {
		logg.Error(ctx, "failed to create image service", err)
		os.Exit(1)
	}

	tourService, err := tours.NewService(tours.ServiceParams{
		Repo:          tours.NewRepository(dbClient.DB()),
		DB:            dbClient,
		Locker:        locker,
		Store:         store,
		Bucket:        cfg.Storage.Bucket,
		Metrics:       curationMetrics,
		Logger:        logg,
		UploadTimeout: cfg.Media.UploadTimeout,
		MaxVideoBytes: cfg.Media.MaxVideoBytes(),
	})
	if err != nil {
		logg.Error(ctx, "failed to create tour service", err)
		os.Exit(1)
	}

	if cfg.Auth.Disabled {
		if cfg.App.IsProd() {
			logg.Error(ctx, "refusing to start", errors.New("admin auth cannot be disabled in prod"))
			os.Exit(1)
		}
		logg.Warn(ctx, "admin auth disabled")
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"storage_driver": strings.ToLower(cfg.Storage.Driver),
		"db_driver":      strings.ToLower(cfg.DB.Driver),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Cars:      carService,
			Images:    imageService,
			Tours:     tourService,
			Profiles:  profiles.NewRepository(dbClient.DB()),
			Idempo:    idempotency,
			Pingers:   pingers,
			Gatherer:  registry,
			HTTPStats: httpMetrics,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverCOS:
		return cos.NewClient(ctx, cfg.Storage, cfg.COS, logg)
	default:
		return gcs.NewClient(ctx, cfg.Storage, cfg.GCP, logg)
	}
}
