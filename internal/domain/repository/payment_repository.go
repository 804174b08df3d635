package repository

import (
	"context"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
)

// SettleFunc produces the payment to record for a locked order. settled reports
// whether the order already has a non-failed payment.
type SettleFunc func(order *model.Order, settled bool) (*model.Payment, error)

// PaymentRepository defines persistence for payments. Payments are append-only.
type PaymentRepository interface {
	// Settle locks the owner's order, calls fn and inserts the returned payment
	// with its payment.settled event in the same transaction
	Settle(ctx context.Context, ownerID, orderID int64, fn SettleFunc) (*model.Payment, error)

	// ListByOwner returns payments across all of the owner's orders, newest first,
	// with the order preloaded
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Payment, error)

	// ListByOrder returns the payments of one order, newest first
	ListByOrder(ctx context.Context, orderID int64) ([]*model.Payment, error)
}

// GatewayRepository reads the seeded payment gateway records.
type GatewayRepository interface {
	FindByID(ctx context.Context, id int64) (*model.PaymentGateway, error)
	List(ctx context.Context) ([]*model.PaymentGateway, error)
	// Upsert inserts the gateway or updates name and is_active of the row with the same code
	Upsert(ctx context.Context, gateway *model.PaymentGateway) error
}
