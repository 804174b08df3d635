package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// DefaultGatewayTimeout bounds a single gateway call when no timeout is configured.
const DefaultGatewayTimeout = 10 * time.Second

type PaymentUsecase struct {
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	gatewayRepo    repository.GatewayRepository
	resolver       gateway.Resolver
	gatewayTimeout time.Duration
	recorder       Recorder
	logger         *zap.Logger
}

func NewPaymentUsecase(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	gatewayRepo repository.GatewayRepository,
	resolver gateway.Resolver,
	gatewayTimeout time.Duration,
	recorder Recorder,
	logger *zap.Logger,
) *PaymentUsecase {
	if gatewayTimeout <= 0 {
		gatewayTimeout = DefaultGatewayTimeout
	}
	return &PaymentUsecase{
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		gatewayRepo:    gatewayRepo,
		resolver:       resolver,
		gatewayTimeout: gatewayTimeout,
		recorder:       recorder,
		logger:         logger,
	}
}

// Pay settles the owner's order through the gateway record gatewayID. A failed
// settlement is recorded and returned without an error. At most one non-failed
// payment exists per order.
func (u *PaymentUsecase) Pay(ctx context.Context, ownerID, orderID, gatewayID int64) (*model.Payment, error) {
	if gatewayID <= 0 {
		return nil, domainErrors.NewFieldValidationError("gateway_id", "The gateway id field is required.")
	}

	gw, err := u.gatewayRepo.FindByID(ctx, gatewayID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewFieldValidationError("gateway_id", "The selected gateway id is invalid.")
		}
		return nil, err
	}
	if !gw.IsActive {
		u.logger.Info("Payment rejected by inactive gateway", zap.Int64("gateway_id", gw.ID), zap.String("code", gw.Code))
		return nil, domainErrors.NewGatewayInactiveError()
	}

	adapter, err := u.resolver.Resolve(gw.Code)
	if err != nil {
		u.logger.Warn("Gateway record has no adapter",
			zap.Int64("gateway_id", gw.ID),
			zap.String("code", gw.Code))
		return nil, err
	}

	return u.paymentRepo.Settle(ctx, ownerID, orderID, func(order *model.Order, settled bool) (*model.Payment, error) {
		if settled {
			return nil, domainErrors.NewInvalidStateError("Order has already been paid")
		}
		return u.Settle(ctx, order, adapter, gw.ID)
	})
}

// Settle runs the settlement protocol for one order: only confirmed orders are
// charged, the adapter is called once with the order total and its result is
// turned into an unsaved Payment. The order itself is not modified.
func (u *PaymentUsecase) Settle(ctx context.Context, order *model.Order, adapter gateway.Adapter, gatewayID int64) (*model.Payment, error) {
	if order.Status != model.OrderStatusConfirmed {
		return nil, domainErrors.NewInvalidStateError("Payment allowed only for confirmed orders")
	}

	callCtx, cancel := context.WithTimeout(ctx, u.gatewayTimeout)
	defer cancel()

	start := time.Now()
	result := adapter.Process(callCtx, order.TotalAmount)
	elapsed := time.Since(start)

	payment := &model.Payment{
		OrderID:          order.ID,
		PaymentGatewayID: gatewayID,
		Status:           paymentStatus(result.Status),
		Amount:           order.TotalAmount,
	}
	if result.TransactionID != "" {
		txID := result.TransactionID
		payment.TransactionID = &txID
	}
	if len(result.Raw) > 0 {
		raw, err := json.Marshal(result.Raw)
		if err != nil {
			u.logger.Warn("Dropping unencodable gateway response",
				zap.String("gateway", string(adapter.Code())),
				zap.Error(err))
		} else {
			payment.GatewayResponse = raw
		}
	}

	u.recorder.Settlement(string(adapter.Code()), string(payment.Status), elapsed)
	fields := []zap.Field{
		zap.Int64("order_id", order.ID),
		zap.String("gateway", string(adapter.Code())),
		zap.String("status", string(payment.Status)),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.Duration("elapsed", elapsed),
	}
	if result.Failed() {
		u.logger.Warn("Settlement failed", fields...)
	} else {
		u.logger.Info("Settlement succeeded", fields...)
	}
	return payment, nil
}

// ListMine returns the payments of every order the owner has.
func (u *PaymentUsecase) ListMine(ctx context.Context, ownerID int64) ([]*model.Payment, error) {
	return u.paymentRepo.ListByOwner(ctx, ownerID)
}

// ListForOrder returns the payments of one of the owner's orders.
func (u *PaymentUsecase) ListForOrder(ctx context.Context, ownerID, orderID int64) ([]*model.Payment, error) {
	order, err := u.orderRepo.FindByOwner(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	return u.paymentRepo.ListByOrder(ctx, order.ID)
}

func paymentStatus(s gateway.SettlementStatus) model.PaymentStatus {
	switch s {
	case gateway.SettlementSuccessful:
		return model.PaymentStatusSuccessful
	case gateway.SettlementFailed:
		return model.PaymentStatusFailed
	default:
		return model.PaymentStatusPending
	}
}
