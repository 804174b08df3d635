package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/entity"
	"github.com/proganas/extendable-order-payment-api/internal/middleware/auth"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
)

// payRequest accepts the gateway under either field name.
type payRequest struct {
	GatewayID        int64 `json:"gateway_id"`
	PaymentGatewayID int64 `json:"payment_gateway_id"`
}

func (r payRequest) gateway() int64 {
	if r.GatewayID != 0 {
		return r.GatewayID
	}
	return r.PaymentGatewayID
}

type PaymentHandler struct {
	usecase *usecase.PaymentUsecase
	logger  *zap.Logger
}

func NewPaymentHandler(usecase *usecase.PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *PaymentHandler) Pay(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req payRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	payment, err := h.usecase.Pay(c.Request().Context(), user.UserID(), id, req.gateway())
	if err != nil {
		return err
	}

	h.logger.Info("Payment processed",
		zap.Int64("user_id", user.UserID()),
		zap.Int64("order_id", id),
		zap.Int64("payment_id", payment.ID),
		zap.String("status", string(payment.Status)))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Payment processed",
		"payment": entity.NewPayment(payment),
	})
}

// ListMine returns the payments of every order the caller owns.
func (h *PaymentHandler) ListMine(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	payments, err := h.usecase.ListMine(c.Request().Context(), user.UserID())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payments": entity.NewPayments(payments),
	})
}

func (h *PaymentHandler) ListForOrder(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	payments, err := h.usecase.ListForOrder(c.Request().Context(), user.UserID(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payments": entity.NewPayments(payments),
	})
}
