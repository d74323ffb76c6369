package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/CoderRahul01/OrmeeHairs/api/controllers"
	"github.com/CoderRahul01/OrmeeHairs/api/routes"
	"github.com/CoderRahul01/OrmeeHairs/internal/checkout"
	"github.com/CoderRahul01/OrmeeHairs/internal/cron"
	"github.com/CoderRahul01/OrmeeHairs/internal/session"
	"github.com/CoderRahul01/OrmeeHairs/pkg/config"
	"github.com/CoderRahul01/OrmeeHairs/pkg/instance"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/metrics"
	"github.com/CoderRahul01/OrmeeHairs/pkg/orders"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
)

const (
	shutdownTimeout = 15 * time.Second
)

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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	backend, err := openStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer backend.close(logg)

	rules, err := pricing.RulesFromConfig(cfg.Pricing)
	if err != nil {
		return err
	}

	orderClient, err := orders.NewClient(cfg.Orders.Endpoint, orders.WithTimeout(cfg.Orders.Timeout))
	if err != nil {
		return err
	}

	registry, err := session.NewRegistry(session.Params{
		Storage:     backend.storage,
		SnapshotKey: cfg.Snapshot.Key,
		Orders:      orderClient,
		Navigator:   checkout.RedirectNavigator{},
		Rules:       rules,
		Logger:      logg,
		Metrics:     cartMetrics,
	})
	if err != nil {
		return err
	}

	services, err := cronServices(cfg, logg, registry, jobMetrics)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	checks := map[string]controllers.Pinger{}
	if backend.redis != nil {
		checks["redis"] = backend.redis
	}
	if backend.db != nil {
		checks["db"] = backend.db
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Sessions: registry,
			Rules:    rules,
			Checks:   checks,
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"storage":  cfg.Storage.Backend,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	for _, svc := range services {
		group.Go(func() error {
			err := svc.Run(groupCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownTimeout)
		defer cancel()
		serverErr := server.Shutdown(shutdownCtx)
		// Flush every cart snapshot before storage closes.
		return multierr.Append(serverErr, registry.Close(shutdownCtx))
	})

	return group.Wait()
}

// cronServices builds the in-process jobs. Snapshot retention runs in
// cmd/cron-worker.
func cronServices(cfg *config.Config, logg *logger.Logger, registry *session.Registry, jobMetrics *metrics.JobMetrics) ([]*cron.Service, error) {
	sweep, err := cron.NewSessionSweepJob(cron.SessionSweepJobParams{
		Logger:   logg,
		Sessions: registry,
		IdleTTL:  cfg.Session.IdleTTL,
	})
	if err != nil {
		return nil, err
	}
	sweepService, err := cron.NewService(cron.ServiceParams{
		Name:     "session-sweep",
		Logger:   logg,
		Registry: cron.NewRegistry(sweep),
		Metrics:  jobMetrics,
		Interval: cfg.Session.SweepInterval,
	})
	if err != nil {
		return nil, err
	}
	return []*cron.Service{sweepService}, nil
}
