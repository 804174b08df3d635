package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/entity"
	"github.com/proganas/extendable-order-payment-api/internal/middleware/auth"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
)

type AuthHandler struct {
	usecase *usecase.AuthUsecase
	logger  *zap.Logger
}

func NewAuthHandler(usecase *usecase.AuthUsecase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.RegisterParams
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.usecase.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResult(session))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.LoginParams
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.usecase.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Info("Login failed", zap.String("ip", c.RealIP()))
		return err
	}

	return c.JSON(http.StatusOK, authResult(session))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	if err := h.usecase.Logout(c.Request().Context(), user.Token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Successfully logged out",
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entity.NewUser(user.User))
}

func authResult(s *usecase.Session) *entity.AuthResult {
	return &entity.AuthResult{
		Token:     s.Token,
		TokenType: "bearer",
		ExpiresAt: s.ExpiresAt,
		User:      entity.NewUser(s.User),
	}
}
