package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
)

// AuthUser represents the caller resolved from a bearer token
type AuthUser struct {
	User   *model.User
	Claims *usecase.Claims
	Token  string
}

// UserID returns the id of the authenticated user.
func (u *AuthUser) UserID() int64 {
	return u.User.ID
}

// contextKey is used for storing user in context
type contextKey string

const (
	userContextKey contextKey = "authenticated_user"
)

// Authenticator resolves a raw token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *usecase.Claims, error)
}

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Authenticator Authenticator
	Logger        *zap.Logger
}

// JWTMiddleware creates a middleware that requires a valid, unrevoked bearer token
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				config.Logger.Debug("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return domainErrors.NewUnauthenticatedError("Unauthenticated.")
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return domainErrors.NewUnauthenticatedError("Unauthenticated.")
			}

			user, claims, err := config.Authenticator.Authenticate(c.Request().Context(), tokenString)
			if err != nil {
				return err
			}

			authUser := &AuthUser{User: user, Claims: claims, Token: tokenString}

			// Store user in request context
			ctx := context.WithValue(c.Request().Context(), userContextKey, authUser)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", user.ID)

			config.Logger.Debug("User authenticated successfully",
				zap.Int64("user_id", user.ID),
				zap.String("path", path))

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c echo.Context) (*AuthUser, bool) {
	user, ok := c.Request().Context().Value(userContextKey).(*AuthUser)
	return user, ok && user != nil
}

// RequireAuth returns the authenticated user or an Unauthenticated error for the error handler
func RequireAuth(c echo.Context) (*AuthUser, error) {
	user, ok := GetUserFromContext(c)
	if !ok {
		return nil, domainErrors.NewUnauthenticatedError("Unauthenticated.")
	}
	return user, nil
}
