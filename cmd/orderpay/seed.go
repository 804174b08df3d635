package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/database"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
)

type gatewaysFile struct {
	Gateways []gatewayEntry `yaml:"gateways"`
}

type gatewayEntry struct {
	Name     string `yaml:"name"`
	Code     string `yaml:"code"`
	IsActive *bool  `yaml:"is_active"`
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or update the payment gateway records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			adapters := gateway.NewRegistry(simulated.Options{Currency: cfg.Payment.Currency}, logger)
			gateways, err := loadGateways(file, adapters.Supported)
			if err != nil {
				return err
			}

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
			ctx := context.Background()
			for _, gw := range gateways {
				if err := repos.Gateway.Upsert(ctx, gw); err != nil {
					return err
				}
				logger.Info("Payment gateway seeded",
					zap.String("code", gw.Code),
					zap.Bool("is_active", gw.IsActive))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "configs/gateways.yaml", "gateway definitions")
	return cmd
}

// loadGateways reads gateway rows from path. Codes without an adapter are rejected.
func loadGateways(path string, supported func(code string) bool) ([]*model.PaymentGateway, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gateways file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var file gatewaysFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal gateways yaml: %w", err)
	}

	gateways := make([]*model.PaymentGateway, 0, len(file.Gateways))
	for i, entry := range file.Gateways {
		if entry.Name == "" {
			return nil, fmt.Errorf("gateways[%d]: name is required", i)
		}
		if !supported(entry.Code) {
			return nil, fmt.Errorf("gateways[%d]: unsupported code %q", i, entry.Code)
		}

		active := true
		if entry.IsActive != nil {
			active = *entry.IsActive
		}
		gateways = append(gateways, &model.PaymentGateway{
			Name:     entry.Name,
			Code:     entry.Code,
			IsActive: active,
		})
	}
	return gateways, nil
}
