package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	domainRepo "github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

type gatewayRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGatewayRepository creates a new payment gateway repository instance
func NewGatewayRepository(db *gorm.DB, logger *zap.Logger) domainRepo.GatewayRepository {
	return &gatewayRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gatewayRepository) FindByID(ctx context.Context, id int64) (*model.PaymentGateway, error) {
	var gw model.PaymentGateway
	if err := r.db.WithContext(ctx).First(&gw, id).Error; err != nil {
		return nil, notFoundOr(err, "payment gateway", "failed to get payment gateway")
	}
	return &gw, nil
}

func (r *gatewayRepository) List(ctx context.Context) ([]*model.PaymentGateway, error) {
	var gateways []*model.PaymentGateway
	if err := r.db.WithContext(ctx).Order("id").Find(&gateways).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment gateways: %w", err)
	}
	return gateways, nil
}

func (r *gatewayRepository) Upsert(ctx context.Context, gw *model.PaymentGateway) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_active", "updated_at"}),
	}).Create(gw).Error
	if err != nil {
		r.logger.Error("Failed to upsert payment gateway",
			zap.String("code", gw.Code),
			zap.Error(err))
		return fmt.Errorf("failed to upsert payment gateway: %w", err)
	}
	return nil
}
