package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/entity"
	"github.com/proganas/extendable-order-payment-api/internal/middleware/auth"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
)

type OrderHandler struct {
	usecase *usecase.OrderUsecase
	logger  *zap.Logger
}

func NewOrderHandler(usecase *usecase.OrderUsecase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *OrderHandler) List(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	// Non-numeric pages fall back to the first page.
	page, _ := strconv.Atoi(c.QueryParam("page"))
	params := usecase.ListOrdersParams{
		Status: c.QueryParam("status"),
		Page:   page,
	}

	result, err := h.usecase.List(c.Request().Context(), user.UserID(), params)
	if err != nil {
		return err
	}

	h.logger.Debug("Listed orders",
		zap.Int64("user_id", user.UserID()),
		zap.Int("page", result.Meta.CurrentPage),
		zap.Int("order_count", len(result.Orders)))

	return c.JSON(http.StatusOK, echo.Map{
		"orders": entity.NewOrderPage(result),
	})
}

func (h *OrderHandler) Create(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req usecase.CreateOrderParams
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.usecase.Create(c.Request().Context(), user.UserID(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order created successfully",
		"order":   entity.NewOrder(order),
	})
}

func (h *OrderHandler) Show(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.usecase.Get(c.Request().Context(), user.UserID(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order": entity.NewOrder(order),
	})
}

func (h *OrderHandler) Update(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	var req usecase.UpdateOrderParams
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.usecase.Update(c.Request().Context(), user.UserID(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order updated successfully",
		"order":   entity.NewOrder(order),
	})
}

func (h *OrderHandler) Confirm(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.usecase.Confirm(c.Request().Context(), user.UserID(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order confirmed successfully",
		"order":   entity.NewOrder(order),
	})
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.usecase.Cancel(c.Request().Context(), user.UserID(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order cancelled successfully",
		"order":   entity.NewOrder(order),
	})
}

func (h *OrderHandler) Delete(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}

	if err := h.usecase.Delete(c.Request().Context(), user.UserID(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order deleted successfully",
	})
}
