package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/proganas/extendable-order-payment-api/internal/adapter/repository"
	"github.com/proganas/extendable-order-payment-api/internal/config"
	domainRepo "github.com/proganas/extendable-order-payment-api/internal/domain/repository"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/cache"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/database"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
	grpcServer "github.com/proganas/extendable-order-payment-api/internal/infrastructure/grpc"
	httpServer "github.com/proganas/extendable-order-payment-api/internal/infrastructure/http"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/metrics"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
)

const revocationPurgeInterval = time.Hour

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			return serve(cfg, logger, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(cfg *config.Config, logger *zap.Logger, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if migrate {
		if err := database.Migrate(ctx, sqlDB, database.MigrateUp, logger); err != nil {
			return err
		}
	}

	repos := database.NewRepositories(db, logger)

	var revoked domainRepo.TokenRevocationStore = repos.Revoked
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		revoked = cache.NewTokenStore(client)
	} else {
		go purgeRevocations(ctx, db, logger)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)
	validator := usecase.NewValidator()
	tokens := usecase.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	adapters := gateway.NewRegistry(simulated.Options{Currency: cfg.Payment.Currency}, logger)

	httpSrv := httpServer.NewServer(cfg, logger, httpServer.Dependencies{
		DB:       sqlDB,
		Auth:     usecase.NewAuthUsecase(repos.User, revoked, tokens, validator, recorder, logger),
		Orders:   usecase.NewOrderUsecase(repos.Order, validator, recorder, logger),
		Payments: usecase.NewPaymentUsecase(repos.Order, repos.Payment, repos.Gateway, adapters, cfg.Payment.GatewayTimeout, recorder, logger),
		Registry: registry,
	})

	errCh := make(chan error, 2)
	go func() {
		errCh <- httpSrv.Start()
	}()

	var grpcSrv *grpcServer.Server
	if cfg.Server.GRPC.Enabled {
		grpcSrv = grpcServer.NewServer(cfg.Service.Name,
			grpcServer.WithAddress(cfg.Server.GRPC.Address()),
			grpcServer.WithLogger(logger),
			grpcServer.WithDatabase(sqlDB, 10*time.Second))
		go grpcSrv.Watch(ctx)
		go func() {
			errCh <- grpcSrv.Start()
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}

	logger.Info("Shutting down servers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancel()

	if grpcSrv != nil {
		if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown gRPC server", zap.Error(err))
		}
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		return err
	}

	logger.Info("Servers shut down successfully")
	return nil
}

// purgeRevocations drops expired entries of the database revocation list.
func purgeRevocations(ctx context.Context, db *gorm.DB, logger *zap.Logger) {
	ticker := time.NewTicker(revocationPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repository.PurgeExpiredRevocations(ctx, db, now)
			if err != nil {
				logger.Warn("Failed to purge revoked tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Purged expired revoked tokens", zap.Int64("count", n))
			}
		}
	}
}
