package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	service string
	db      Pinger
	logger  *zap.Logger
}

func NewHealthHandler(service string, db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		db:      db,
		logger:  logger,
	}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": h.service,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.service,
	})
}
