package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	domainRepo "github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// Settle runs fn against the locked order and records its payment. Concurrent
// settlements of one order serialize on the order row.
func (r *paymentRepository) Settle(ctx context.Context, ownerID, orderID int64, fn domainRepo.SettleFunc) (*model.Payment, error) {
	var payment *model.Payment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := lockOwnedOrder(tx, ownerID, orderID, &order); err != nil {
			return notFoundOr(err, "order", "failed to lock order")
		}

		var settled int64
		err := tx.Model(&model.Payment{}).
			Where("order_id = ? AND status <> ?", order.ID, model.PaymentStatusFailed).
			Count(&settled).Error
		if err != nil {
			return fmt.Errorf("failed to count payments: %w", err)
		}

		p, err := fn(&order, settled > 0)
		if err != nil {
			return err
		}
		p.OrderID = order.ID

		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
				return domainErrors.NewInvalidStateError("Order has already been paid")
			}
			return fmt.Errorf("failed to create payment: %w", err)
		}
		if err := appendEvent(tx, model.AggregatePayment, p.ID, model.EventPaymentSettled, event.NewPaymentSettled(p, &order, time.Now().UTC())); err != nil {
			return err
		}

		p.Order = &order
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("order_id", payment.OrderID),
		zap.String("status", string(payment.Status)),
		zap.String("amount", payment.Amount.String()))
	return payment, nil
}

// ListByOwner returns payments for every order the owner has
func (r *paymentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", ownerID).
		Preload("Order").
		Preload("Gateway").
		Order("payments.created_at DESC").
		Order("payments.id DESC").
		Find(&payments).Error
	if err != nil {
		r.logger.Error("Failed to list payments",
			zap.Int64("user_id", ownerID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListByOrder returns the payments of one order
func (r *paymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Preload("Gateway").
		Order("created_at DESC").
		Order("id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list order payments: %w", err)
	}
	return payments, nil
}
