package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*model.User, *usecase.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*usecase.Claims), args.Error(2)
}

func serve(t *testing.T, config JWTConfig, path, header string, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, JWTMiddleware(config)(handler)(c)
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	authenticator := new(MockAuthenticator)
	user := &model.User{ID: 7, Email: "ada@example.com"}
	claims := &usecase.Claims{Email: "ada@example.com"}
	authenticator.On("Authenticate", mock.Anything, "good-token").Return(user, claims, nil)

	config := JWTConfig{Authenticator: authenticator, Logger: zap.NewNop()}
	rec, err := serve(t, config, "/orders", "Bearer good-token", func(c echo.Context) error {
		authUser, err := RequireAuth(c)
		require.NoError(t, err)
		assert.Equal(t, int64(7), authUser.UserID())
		assert.Equal(t, "good-token", authUser.Token)
		assert.Same(t, claims, authUser.Claims)
		assert.Equal(t, int64(7), c.Get("user_id"))
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	authenticator.AssertExpectations(t)
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"no scheme", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticator := new(MockAuthenticator)
			config := JWTConfig{Authenticator: authenticator, Logger: zap.NewNop()}

			called := false
			_, err := serve(t, config, "/orders", tt.header, func(c echo.Context) error {
				called = true
				return nil
			})

			assert.True(t, errors.Is(err, domainErrors.ErrUnauthenticated))
			assert.False(t, called)
			authenticator.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
		})
	}
}

func TestJWTMiddleware_AuthenticatorError(t *testing.T) {
	authenticator := new(MockAuthenticator)
	authenticator.On("Authenticate", mock.Anything, "revoked").
		Return(nil, nil, domainErrors.NewUnauthenticatedError("Unauthenticated."))

	config := JWTConfig{Authenticator: authenticator, Logger: zap.NewNop()}
	_, err := serve(t, config, "/orders", "bearer revoked", func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.True(t, errors.Is(err, domainErrors.ErrUnauthenticated))
}

func TestRequireAuth_WithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := RequireAuth(c)
	assert.True(t, errors.Is(err, domainErrors.ErrUnauthenticated))
}
