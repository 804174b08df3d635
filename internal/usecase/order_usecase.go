package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/proganas/extendable-order-payment-api/internal/domain/entity"
	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// maxAmount is the first value that no longer fits a decimal(10,2) column.
var maxAmount = decimal.NewFromInt(100000000)

// CreateOrderParams is the input of OrderUsecase.Create.
type CreateOrderParams struct {
	Name     string           `json:"name" validate:"required,max=255,noscript"`
	Price    *decimal.Decimal `json:"price" validate:"required,gt=0,lt=100000000"`
	Quantity *int             `json:"quantity" validate:"required,gte=1"`
}

// UpdateOrderParams is a partial update; nil fields are left unchanged.
type UpdateOrderParams struct {
	Name     *string          `json:"name" validate:"omitnil,min=1,max=255,noscript"`
	Price    *decimal.Decimal `json:"price" validate:"omitnil,gt=0,lt=100000000"`
	Quantity *int             `json:"quantity" validate:"omitnil,gte=1"`
}

// ListOrdersParams filters and pages the owner's orders. An empty Status lists all.
type ListOrdersParams struct {
	Status string `query:"status"`
	Page   int    `query:"page"`
}

// OrderUsecase runs the order lifecycle: pending orders may be updated,
// confirmed, cancelled or deleted; confirmed and cancelled are terminal.
type OrderUsecase struct {
	orderRepo repository.OrderRepository
	validator *Validator
	recorder  Recorder
	logger    *zap.Logger
}

func NewOrderUsecase(
	orderRepo repository.OrderRepository,
	validator *Validator,
	recorder Recorder,
	logger *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo: orderRepo,
		validator: validator,
		recorder:  recorder,
		logger:    logger,
	}
}

// Create validates params and stores a pending order owned by ownerID.
func (u *OrderUsecase) Create(ctx context.Context, ownerID int64, params CreateOrderParams) (*model.Order, error) {
	params.Name = normalizeName(params.Name)
	params.Price = toCents(params.Price)
	if err := u.validator.Struct(params); err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:   ownerID,
		Name:     params.Name,
		Price:    *params.Price,
		Quantity: *params.Quantity,
		Status:   model.OrderStatusPending,
	}
	if err := checkTotal(order.Price, order.Quantity); err != nil {
		return nil, err
	}

	if err := u.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	u.recorder.OrderEvent(model.EventOrderCreated)
	u.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", ownerID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)))
	return order, nil
}

// List returns one page of the owner's orders, newest first.
func (u *OrderUsecase) List(ctx context.Context, ownerID int64, params ListOrdersParams) (*entity.PaginatedOrders, error) {
	var status *model.OrderStatus
	if params.Status != "" {
		st, ok := model.ParseOrderStatus(params.Status)
		if !ok {
			return nil, domainErrors.NewInvalidFilterError("status")
		}
		status = &st
	}

	page := entity.ClampPage(params.Page)

	orders, total, err := u.orderRepo.List(ctx, repository.OrderFilter{
		OwnerID: ownerID,
		Status:  status,
		Offset:  entity.Offset(page, entity.OrdersPerPage),
		Limit:   entity.OrdersPerPage,
	})
	if err != nil {
		return nil, err
	}

	return &entity.PaginatedOrders{
		Orders: orders,
		Meta:   entity.NewPaginationMeta(page, entity.OrdersPerPage, total, len(orders)),
	}, nil
}

// Get returns a single order of the owner.
func (u *OrderUsecase) Get(ctx context.Context, ownerID, orderID int64) (*model.Order, error) {
	return u.orderRepo.FindByOwner(ctx, ownerID, orderID)
}

// Update merges the supplied fields into a pending order and recomputes its total.
func (u *OrderUsecase) Update(ctx context.Context, ownerID, orderID int64, params UpdateOrderParams) (*model.Order, error) {
	if params.Name != nil {
		name := normalizeName(*params.Name)
		params.Name = &name
	}
	params.Price = toCents(params.Price)
	if err := u.validator.Struct(params); err != nil {
		return nil, err
	}

	order, err := u.orderRepo.Mutate(ctx, ownerID, orderID, model.EventOrderUpdated, func(o *model.Order) error {
		if !o.IsPending() {
			return domainErrors.NewInvalidStateError("Only pending orders can be updated")
		}
		if params.Name != nil {
			o.Name = *params.Name
		}
		if params.Price != nil {
			o.Price = *params.Price
		}
		if params.Quantity != nil {
			o.Quantity = *params.Quantity
		}
		return checkTotal(o.Price, o.Quantity)
	})
	if err != nil {
		return nil, err
	}

	u.recorder.OrderEvent(model.EventOrderUpdated)
	return order, nil
}

// Confirm moves a pending order to confirmed.
func (u *OrderUsecase) Confirm(ctx context.Context, ownerID, orderID int64) (*model.Order, error) {
	return u.transition(ctx, ownerID, orderID, model.OrderStatusConfirmed, model.EventOrderConfirmed)
}

// Cancel moves a pending order to cancelled.
func (u *OrderUsecase) Cancel(ctx context.Context, ownerID, orderID int64) (*model.Order, error) {
	return u.transition(ctx, ownerID, orderID, model.OrderStatusCancelled, model.EventOrderCancelled)
}

func (u *OrderUsecase) transition(ctx context.Context, ownerID, orderID int64, target model.OrderStatus, eventType string) (*model.Order, error) {
	order, err := u.orderRepo.Mutate(ctx, ownerID, orderID, eventType, func(o *model.Order) error {
		if !o.IsPending() {
			return domainErrors.NewInvalidStateError(fmt.Sprintf("Only pending orders can be %s", target))
		}
		o.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.recorder.OrderEvent(eventType)
	u.logger.Info("Order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("status", string(order.Status)))
	return order, nil
}

// Delete removes a pending order that no payment references.
func (u *OrderUsecase) Delete(ctx context.Context, ownerID, orderID int64) error {
	err := u.orderRepo.Delete(ctx, ownerID, orderID, func(o *model.Order, payments int64) error {
		if !o.IsPending() {
			return domainErrors.NewInvalidStateError("Only pending orders can be deleted")
		}
		if payments > 0 {
			return domainErrors.NewHasPaymentsError()
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.recorder.OrderEvent(model.EventOrderDeleted)
	u.logger.Info("Order deleted", zap.Int64("order_id", orderID), zap.Int64("user_id", ownerID))
	return nil
}

// normalizeName trims a name and composes it to NFC so its length is counted
// in characters as they are displayed.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// toCents rounds a price to the stored precision so bounds are checked on what gets saved.
func toCents(price *decimal.Decimal) *decimal.Decimal {
	if price == nil {
		return nil
	}
	rounded := price.Round(2)
	return &rounded
}

// checkTotal rejects combinations whose total overflows the amount column.
func checkTotal(price decimal.Decimal, quantity int) error {
	if price.Mul(decimal.NewFromInt(int64(quantity))).GreaterThanOrEqual(maxAmount) {
		return domainErrors.NewFieldValidationError("quantity", "The total amount must be less than 100000000.")
	}
	return nil
}
