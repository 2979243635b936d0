package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/analytics"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/commission"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/config"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/idempotency"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/instance"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/metrics"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/migrate"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/pubsub"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "payments-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "payments-worker"

	logg = logger.New(logger.Options{
		ServiceName: "payments-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database", err)
		}
	}()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	subscription := pubsubClient.PaymentsSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "payments subscription", errors.New("subscription not configured"))
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.IdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	params := commission.ServiceParams{
		Repo:     commission.NewRepository(dbClient.DB()),
		Metrics:  metrics.NewCommissionMetrics(prometheus.DefaultRegisterer),
		Logger:   logg,
		Currency: cfg.Commission.Currency(),
	}
	writer, closeFacts, err := analytics.OpenCommissionWriter(ctx, cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "commission fact writer", err)
	defer func() {
		if err := closeFacts(); err != nil {
			logg.Error(ctx, "failed to close bigquery client", err)
		}
	}()
	if writer != nil {
		params.Facts = writer
	}

	service, err := commission.NewService(params)
	requireResource(ctx, logg, "commission service", err)

	consumer, err := commission.NewConsumer(subscription, service, manager, logg)
	requireResource(ctx, logg, "payments consumer", err)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":          cfg.App.Env,
		"instance":     instance.GetID(),
		"serviceKind":  cfg.Service.Kind,
		"subscription": cfg.PubSub.PaymentsSubscription,
	})
	logg.Info(runCtx, "payments worker ready")

	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "payments worker failed", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "payments worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
