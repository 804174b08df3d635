package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/adapter/outbox"
	"github.com/proganas/extendable-order-payment-api/internal/config"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/cache"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/database"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/mail"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/messaging"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/metrics"
	pkgmessaging "github.com/proganas/extendable-order-payment-api/pkg/messaging"
)

func relayCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "outbox-relay",
		Short: "Publish committed outbox messages to the configured broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runRelay(cfg, logger, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9102", "address of the relay metrics endpoint, empty to disable")
	return cmd
}

func runRelay(cfg *config.Config, logger *zap.Logger, metricsAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := outbox.NewPool(ctx, cfg.Database.URL())
	if err != nil {
		return err
	}
	defer pool.Close()

	var redisClient pkgmessaging.RedisClient
	if cfg.Outbox.Publisher == config.PublisherRedis {
		client, err := cache.NewRedisClient(cfg.Redis, logger)
		if err != nil {
			return err
		}
		redisClient = pkgmessaging.WrapRedisClient(client)
	}

	broker, err := messaging.NewPublisher(cfg.Outbox, redisClient, logger)
	if err != nil {
		return err
	}
	publishers := messaging.Fanout{broker}

	if cfg.Mail.Enabled {
		db, err := database.NewConnection(&cfg.Database, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db, logger); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}()
		repos := database.NewRepositories(db, logger)
		publishers = append(publishers, mail.NewReceiptNotifier(cfg.Mail, repos.User, logger))
	}
	defer publishers.Close()

	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)
	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics endpoint stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	relay := outbox.NewRelay(outbox.NewPgxStore(pool), publishers, outbox.Config{
		Interval:  cfg.Outbox.Interval,
		BatchSize: cfg.Outbox.BatchSize,
	}, recorder, logger)

	logger.Info("Outbox publishers ready",
		zap.String("publisher", cfg.Outbox.Publisher),
		zap.Bool("mail", cfg.Mail.Enabled))
	return relay.Run(ctx)
}
