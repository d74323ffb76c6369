package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/CoderRahul01/OrmeeHairs/internal/cron"
	"github.com/CoderRahul01/OrmeeHairs/internal/snapshot"
	"github.com/CoderRahul01/OrmeeHairs/pkg/config"
	"github.com/CoderRahul01/OrmeeHairs/pkg/db"
	"github.com/CoderRahul01/OrmeeHairs/pkg/instance"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/metrics"
	"github.com/CoderRahul01/OrmeeHairs/pkg/migrate"
	"github.com/CoderRahul01/OrmeeHairs/pkg/redis"
)

const lockName = "cron-worker:%s"

// cron-worker prunes SQL cart snapshots nobody has written within
// ORMEE_SNAPSHOT_RETENTION. Several replicas may run; a redis lock keeps one
// cycle at a time when redis is configured.
func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !cfg.Storage.NeedsDB() {
		logg.Error(context.Background(), "cron worker needs a SQL snapshot backend",
			fmt.Errorf("%s=%q", config.EnvStorageBackend, cfg.Storage.Backend))
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.Storage.Backend, cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	storage, err := snapshot.NewSQLStorage(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot storage", err)
		os.Exit(1)
	}

	job, err := cron.NewSnapshotRetentionJob(cron.SnapshotRetentionJobParams{
		Logger:     logg,
		Repository: storage,
		Retention:  cfg.Snapshot.Retention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create retention job", err)
		os.Exit(1)
	}

	params := cron.ServiceParams{
		Name:     "snapshot-retention",
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
	}

	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(fmt.Sprintf(lockName, cfg.App.Env)), 0)
		if err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
		params.Lock = lock
	}

	service, err := cron.NewService(params)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
