package repository

import (
	"context"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
)

// OrderFilter narrows an owner's order listing.
type OrderFilter struct {
	OwnerID int64
	// Status is optional; nil lists every status.
	Status *model.OrderStatus
	Offset int
	Limit  int
}

// OrderMutation changes a locked order in place. Returning an error aborts the
// surrounding transaction.
type OrderMutation func(order *model.Order) error

// OrderDeleteGuard decides whether a locked order may be removed.
type OrderDeleteGuard func(order *model.Order, paymentCount int64) error

// OrderRepository defines persistence for orders. Every lookup is scoped to the
// owner: a foreign order is reported exactly like a missing one.
type OrderRepository interface {
	// Create inserts the order and its order.created event atomically
	Create(ctx context.Context, order *model.Order) error

	// FindByOwner returns the owner's order or a NotFound error
	FindByOwner(ctx context.Context, ownerID, orderID int64) (*model.Order, error)

	// List returns one page of the owner's orders, newest first, and the total count
	List(ctx context.Context, filter OrderFilter) ([]*model.Order, int64, error)

	// Mutate locks the owner's order, applies fn, saves it and records eventType
	// in one transaction
	Mutate(ctx context.Context, ownerID, orderID int64, eventType string, fn OrderMutation) (*model.Order, error)

	// Delete locks the owner's order, consults guard with the number of payments
	// referencing it and removes it together with an order.deleted event
	Delete(ctx context.Context, ownerID, orderID int64, guard OrderDeleteGuard) error
}
