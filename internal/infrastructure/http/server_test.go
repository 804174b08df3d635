package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/proganas/extendable-order-payment-api/internal/adapter/repository"
	"github.com/proganas/extendable-order-payment-api/internal/config"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/metrics"
	"github.com/proganas/extendable-order-payment-api/internal/usecase"
)

type testServer struct {
	handler http.Handler
	db      *gorm.DB
	stripe  int64
	paypal  int64
}

func newTestServer(t *testing.T, limits config.RateLimitConfig) *testServer {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.RevokedToken{}, &model.PaymentGateway{},
		&model.Order{}, &model.Payment{}, &model.OutboxMessage{},
	))

	stripeGW := &model.PaymentGateway{Name: "Stripe", Code: "stripe", IsActive: true}
	paypalGW := &model.PaymentGateway{Name: "PayPal", Code: "paypal", IsActive: false}
	require.NoError(t, db.Create(stripeGW).Error)
	require.NoError(t, db.Create(paypalGW).Error)

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg)
	validator := usecase.NewValidator()

	orderRepo := repository.NewOrderRepository(db, logger)
	deps := Dependencies{
		DB: sqlDB,
		Auth: usecase.NewAuthUsecase(
			repository.NewUserRepository(db, logger),
			repository.NewRevokedTokenRepository(db),
			usecase.NewTokenManager("test-secret", "orderpay", time.Hour),
			validator, recorder, logger),
		Orders: usecase.NewOrderUsecase(orderRepo, validator, recorder, logger),
		Payments: usecase.NewPaymentUsecase(
			orderRepo,
			repository.NewPaymentRepository(db, logger),
			repository.NewGatewayRepository(db, logger),
			gateway.NewRegistry(simulated.Options{}, logger),
			time.Second, recorder, logger),
		Registry: reg,
	}

	cfg := &config.Config{RateLimit: limits}
	return &testServer{
		handler: NewServer(cfg, logger, deps).Handler(),
		db:      db,
		stripe:  stripeGW.ID,
		paypal:  paypalGW.ID,
	}
}

func generous() config.RateLimitConfig {
	return config.RateLimitConfig{AuthPerMinute: 6000, Burst: 100}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":                  "Ada",
		"email":                 email,
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["token"].(string)
}

func (s *testServer) createOrder(t *testing.T, token string, price string, qty int) int64 {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/orders", token, map[string]interface{}{
		"name": "Widget", "price": price, "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, status, body)
	return int64(body["order"].(map[string]interface{})["id"].(float64))
}

func TestServer_StripeScenario(t *testing.T) {
	s := newTestServer(t, generous())
	token := s.register(t, "ada@example.com")

	status, body := s.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"name": "Widget", "price": 10.00, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Order created successfully", body["message"])
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "30.00", order["total_amount"])
	assert.Equal(t, "pending", order["status"])
	id := int64(order["id"].(float64))

	status, body = s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", id), token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "confirmed", body["order"].(map[string]interface{})["status"])

	status, body = s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/pay", id), token, map[string]int64{"gateway_id": s.stripe})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Payment processed", body["message"])
	payment := body["payment"].(map[string]interface{})
	assert.Equal(t, "successful", payment["status"])
	assert.Equal(t, "30.00", payment["amount"])
	assert.True(t, strings.HasPrefix(payment["transaction_id"].(string), "stripe_"))

	status, body = s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/pay", id), token, map[string]int64{"payment_gateway_id": s.stripe})
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = s.do(t, http.MethodGet, "/payments", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["payments"], 1)

	status, body = s.do(t, http.MethodGet, fmt.Sprintf("/orders/%d/payments", id), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["payments"], 1)

	status, body = s.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", id), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", body["order"].(map[string]interface{})["status"])
}

func TestServer_OrderLifecycleErrors(t *testing.T) {
	s := newTestServer(t, generous())
	token := s.register(t, "ada@example.com")

	t.Run("pay before confirm", func(t *testing.T) {
		id := s.createOrder(t, token, "5.00", 1)

		status, body := s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/pay", id), token, map[string]int64{"gateway_id": s.stripe})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Payment allowed only for confirmed orders", body["message"])

		var count int64
		require.NoError(t, s.db.Model(&model.Payment{}).Where("order_id = ?", id).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("cancel then update", func(t *testing.T) {
		id := s.createOrder(t, token, "5.00", 1)

		status, _ := s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/cancel", id), token, nil)
		require.Equal(t, http.StatusOK, status)

		status, body := s.do(t, http.MethodPut, fmt.Sprintf("/orders/%d", id), token, map[string]int{"quantity": 2})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Only pending orders can be updated", body["message"])
	})

	t.Run("update recomputes total", func(t *testing.T) {
		id := s.createOrder(t, token, "2.50", 2)

		status, body := s.do(t, http.MethodPatch, fmt.Sprintf("/orders/%d", id), token, map[string]int{"quantity": 4})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "10.00", body["order"].(map[string]interface{})["total_amount"])
	})

	t.Run("delete pending order", func(t *testing.T) {
		id := s.createOrder(t, token, "1.00", 1)

		status, body := s.do(t, http.MethodDelete, fmt.Sprintf("/orders/%d", id), token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Order deleted successfully", body["message"])

		status, _ = s.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", id), token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("invalid input", func(t *testing.T) {
		status, body := s.do(t, http.MethodPost, "/orders", token, map[string]interface{}{"name": "", "price": -1, "quantity": 0})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "price")
		assert.Contains(t, errs, "quantity")
	})

	t.Run("wrong type", func(t *testing.T) {
		status, body := s.do(t, http.MethodPost, "/orders", token, map[string]interface{}{"name": "A", "price": 1, "quantity": "many"})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Contains(t, body["errors"], "quantity")
	})

	t.Run("unknown status filter", func(t *testing.T) {
		status, body := s.do(t, http.MethodGet, "/orders?status=shipped", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "Invalid order status filter", body["message"])
	})

	t.Run("inactive gateway", func(t *testing.T) {
		id := s.createOrder(t, token, "1.00", 1)
		status, _ := s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", id), token, nil)
		require.Equal(t, http.StatusOK, status)

		status, body := s.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/pay", id), token, map[string]int64{"gateway_id": s.paypal})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Payment gateway is not active", body["message"])
	})

	t.Run("non numeric id", func(t *testing.T) {
		status, _ := s.do(t, http.MethodGet, "/orders/abc", token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestServer_ListOrdersPagination(t *testing.T) {
	s := newTestServer(t, generous())
	token := s.register(t, "ada@example.com")
	for i := 0; i < 12; i++ {
		s.createOrder(t, token, "1.00", 1)
	}

	status, body := s.do(t, http.MethodGet, "/orders?page=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	page := body["orders"].(map[string]interface{})
	assert.Len(t, page["data"], 2)
	assert.Equal(t, float64(2), page["current_page"])
	assert.Equal(t, float64(10), page["per_page"])
	assert.Equal(t, float64(12), page["total"])
	assert.Equal(t, float64(2), page["last_page"])

	status, body = s.do(t, http.MethodGet, "/orders?status=pending&page=x", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"].(map[string]interface{})["data"], 10)
}

func TestServer_Ownership(t *testing.T) {
	s := newTestServer(t, generous())
	owner := s.register(t, "owner@example.com")
	other := s.register(t, "other@example.com")
	id := s.createOrder(t, owner, "1.00", 1)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, fmt.Sprintf("/orders/%d", id)},
		{http.MethodPost, fmt.Sprintf("/orders/%d/confirm", id)},
		{http.MethodDelete, fmt.Sprintf("/orders/%d", id)},
		{http.MethodGet, fmt.Sprintf("/orders/%d/payments", id)},
	} {
		status, _ := s.do(t, tc.method, tc.path, other, nil)
		assert.Equal(t, http.StatusNotFound, status, tc.path)
	}

	status, body := s.do(t, http.MethodGet, "/orders", other, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["orders"].(map[string]interface{})["data"])
}

func TestServer_Authentication(t *testing.T) {
	s := newTestServer(t, generous())

	status, _ := s.do(t, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := s.register(t, "ada@example.com")

	status, body := s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ada@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid login credentials", body["message"])

	status, body = s.do(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.NotContains(t, body, "password_hash")

	status, body = s.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully logged out", body["message"])

	status, _ = s.do(t, http.MethodGet, "/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestServer_AuthRateLimit(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{AuthPerMinute: 1, Burst: 1})

	status, _ := s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RESOURCE_EXHAUSTED", body["code"])
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, generous())

	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests_total")
}
