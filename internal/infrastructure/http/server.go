package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	handlers "github.com/proganas/extendable-order-payment-api/internal/adapter/handler/http"
	"github.com/proganas/extendable-order-payment-api/internal/config"
	"github.com/proganas/extendable-order-payment-api/internal/middleware/auth"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
	pkgerrors "github.com/proganas/extendable-order-payment-api/pkg/errors"
	"github.com/proganas/extendable-order-payment-api/pkg/logger"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	DB       handlers.Pinger
	Auth     *usecase.AuthUsecase
	Orders   *usecase.OrderUsecase
	Payments *usecase.PaymentUsecase
	Registry *prometheus.Registry
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	server *http.Server
	deps   Dependencies
}

func NewServer(cfg *config.Config, zapLogger *zap.Logger, deps Dependencies) *Server {
	e := echo.New()
	logger.WithEchoLogger(e, zapLogger)
	e.HTTPErrorHandler = pkgerrors.NewHTTPErrorHandler(zapLogger)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(logger.NewEchoRequestLogger(zapLogger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  config.ServiceName,
		Registerer: deps.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	s := &Server{
		config: cfg,
		logger: zapLogger,
		echo:   e,
		server: &http.Server{
			Addr:         cfg.Server.HTTP.Address(),
			Handler:      e,
			ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
			WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		},
		deps: deps,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	if err := s.echo.StartServer(s.server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(config.ServiceName, s.deps.DB, s.logger)
	authHandler := handlers.NewAuthHandler(s.deps.Auth, s.logger)
	orderHandler := handlers.NewOrderHandler(s.deps.Orders, s.logger)
	paymentHandler := handlers.NewPaymentHandler(s.deps.Payments, s.logger)

	s.echo.GET("/health", healthHandler.Health)
	s.echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.deps.Registry,
	}))

	requireAuth := auth.JWTMiddleware(auth.JWTConfig{
		Authenticator: s.deps.Auth,
		Logger:        s.logger,
	})
	limiter := s.authRateLimiter()

	// Every route is served both at the root and under /api.
	for _, prefix := range []string{"", "/api"} {
		g := s.echo.Group(prefix)

		// Public routes
		g.POST("/register", authHandler.Register, limiter)
		g.POST("/login", authHandler.Login, limiter)

		// Protected routes
		g.POST("/logout", authHandler.Logout, requireAuth)
		g.GET("/user", authHandler.Me, requireAuth)

		g.GET("/orders", orderHandler.List, requireAuth)
		g.POST("/orders", orderHandler.Create, requireAuth)
		g.GET("/orders/:id", orderHandler.Show, requireAuth)
		g.PUT("/orders/:id", orderHandler.Update, requireAuth)
		g.PATCH("/orders/:id", orderHandler.Update, requireAuth)
		g.DELETE("/orders/:id", orderHandler.Delete, requireAuth)
		g.POST("/orders/:id/confirm", orderHandler.Confirm, requireAuth)
		g.POST("/orders/:id/cancel", orderHandler.Cancel, requireAuth)

		g.POST("/orders/:id/pay", paymentHandler.Pay, requireAuth)
		g.GET("/orders/:id/payments", paymentHandler.ListForOrder, requireAuth)
		g.GET("/payments", paymentHandler.ListMine, requireAuth)
	}
}

// authRateLimiter throttles register and login per client IP.
func (s *Server) authRateLimiter() echo.MiddlewareFunc {
	cfg := s.config.RateLimit
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.AuthPerMinute) / 60),
		Burst:     cfg.Burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return pkgerrors.NewAppError(pkgerrors.ErrInternal, "rate limiter failed", err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			s.logger.Warn("Auth rate limit exceeded", zap.String("ip", identifier))
			return pkgerrors.NewAppError(pkgerrors.ErrRateLimited, "Too Many Attempts.", err)
		},
	})
}
