package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	domainRepo "github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) domainRepo.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the order and its order.created event
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	order.Recalculate()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return appendEvent(tx, model.AggregateOrder, order.ID, model.EventOrderCreated, event.NewOrder(order, time.Now().UTC()))
	})
	if err != nil {
		r.logger.Error("Failed to create order",
			zap.Int64("user_id", order.UserID),
			zap.Error(err))
		return err
	}
	return nil
}

// FindByOwner returns the owner's order
func (r *orderRepository) FindByOwner(ctx context.Context, ownerID, orderID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, ownerID).
		First(&order).Error
	if err != nil {
		return nil, r.translate(err, "failed to get order", orderID)
	}
	return &order, nil
}

// List returns a page of the owner's orders, newest first
func (r *orderRepository) List(ctx context.Context, filter domainRepo.OrderFilter) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", filter.OwnerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := make([]*model.Order, 0, filter.Limit)
	if total == 0 {
		return orders, 0, nil
	}

	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		r.logger.Error("Failed to list orders",
			zap.Int64("user_id", filter.OwnerID),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// Mutate applies fn to the locked order and persists the result with an event
func (r *orderRepository) Mutate(ctx context.Context, ownerID, orderID int64, eventType string, fn domainRepo.OrderMutation) (*model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwnedOrder(tx, ownerID, orderID, &order); err != nil {
			return r.translate(err, "failed to lock order", orderID)
		}

		if err := fn(&order); err != nil {
			return err
		}
		order.Recalculate()

		if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return appendEvent(tx, model.AggregateOrder, order.ID, eventType, event.NewOrder(&order, time.Now().UTC()))
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Order mutated",
		zap.Int64("order_id", order.ID),
		zap.String("event", eventType),
		zap.String("status", string(order.Status)))
	return &order, nil
}

// Delete removes the locked order if guard allows it
func (r *orderRepository) Delete(ctx context.Context, ownerID, orderID int64, guard domainRepo.OrderDeleteGuard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := lockOwnedOrder(tx, ownerID, orderID, &order); err != nil {
			return r.translate(err, "failed to lock order", orderID)
		}

		var payments int64
		if err := tx.Model(&model.Payment{}).Where("order_id = ?", order.ID).Count(&payments).Error; err != nil {
			return fmt.Errorf("failed to count payments: %w", err)
		}
		if err := guard(&order, payments); err != nil {
			return err
		}

		if err := tx.Delete(&model.Order{}, order.ID).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return appendEvent(tx, model.AggregateOrder, order.ID, model.EventOrderDeleted, event.NewOrder(&order, time.Now().UTC()))
	})
}

// lockOwnedOrder loads the order with SELECT ... FOR UPDATE. Drivers without
// row locks (sqlite) drop the clause.
func lockOwnedOrder(tx *gorm.DB, ownerID, orderID int64, order *model.Order) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", orderID, ownerID).
		First(order).Error
}

// translate maps record-not-found to the domain NotFound error and wraps the rest
func (r *orderRepository) translate(err error, msg string, orderID int64) error {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Error(msg, zap.Int64("order_id", orderID), zap.Error(err))
	}
	return notFoundOr(err, "order", msg)
}
