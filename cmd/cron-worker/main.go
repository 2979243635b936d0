package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/analytics"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/commission"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/cron"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/plans"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/ranking"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/config"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/instance"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/metrics"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/migrate"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/redis"
)

const lockName = "cron-worker"

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

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	facts, closeFacts, err := analytics.OpenCommissionWriter(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap commission fact writer", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeFacts(); err != nil {
			logg.Error(context.Background(), "error closing bigquery client", err)
		}
	}()

	registry, err := buildRegistry(cfg, logg, dbClient, redisClient, facts)
	if err != nil {
		logg.Error(context.Background(), "failed to build cron jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockName, cfg.App.Env, cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"instance":    instance.GetID(),
		"serviceKind": cfg.Service.Kind,
		"lockKey":     lock.Key(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildRegistry(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, facts *analytics.CommissionWriter) (*cron.Registry, error) {
	priorities, err := plans.NewPriorityResolver(plans.NewRepository(dbClient.DB()))
	if err != nil {
		return nil, err
	}
	cache, err := ranking.NewRedisHomepageCache(redisClient)
	if err != nil {
		return nil, err
	}
	rankingService, err := ranking.NewService(ranking.ServiceParams{
		Repo:          ranking.NewRepository(dbClient.DB()),
		Plans:         priorities,
		Cache:         cache,
		Metrics:       metrics.NewRankingMetrics(prometheus.DefaultRegisterer),
		Logger:        logg,
		HomepageSize:  cfg.Ranking.HomepageSize,
		MaxCandidates: cfg.Ranking.MaxCandidates,
		CacheTTL:      cfg.Ranking.CacheTTL,
	})
	if err != nil {
		return nil, err
	}
	homepageJob, err := cron.NewHomepageRankingJob(cron.HomepageRankingJobParams{
		Logger:  logg,
		Ranking: rankingService,
	})
	if err != nil {
		return nil, err
	}

	commissionRepo := commission.NewRepository(dbClient.DB())
	commissionService, err := commission.NewService(commissionParams(
		cfg, logg, commissionRepo, metrics.NewCommissionMetrics(prometheus.DefaultRegisterer), facts,
	))
	if err != nil {
		return nil, err
	}
	reconcileJob, err := cron.NewCommissionReconcileJob(cron.CommissionReconcileJobParams{
		Logger:    logg,
		Payments:  commissionRepo,
		Recorder:  commissionService,
		BatchSize: cfg.Commission.ReconcileBatch,
		Lookback:  cfg.Commission.ReconcileLookback,
	})
	if err != nil {
		return nil, err
	}

	return cron.NewRegistry(homepageJob, reconcileJob), nil
}

// commissionParams leaves Facts unset when export is disabled so the service
// never sees a typed nil writer.
func commissionParams(cfg *config.Config, logg *logger.Logger, repo commission.Repository, recorder *metrics.CommissionMetrics, facts *analytics.CommissionWriter) commission.ServiceParams {
	params := commission.ServiceParams{
		Repo:     repo,
		Metrics:  recorder,
		Logger:   logg,
		Currency: cfg.Commission.Currency(),
	}
	if facts != nil {
		params.Facts = facts
	}
	return params
}
