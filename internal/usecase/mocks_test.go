package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// MockOrderRepository is a mock implementation of OrderRepository. Mutate and
// Delete run the supplied callback against the order returned by the mock,
// the way the real repository does against the locked row.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.Recalculate()
		if order.ID == 0 {
			order.ID = 1
		}
	}
	return args.Error(0)
}

func (m *MockOrderRepository) FindByOwner(ctx context.Context, ownerID, orderID int64) (*model.Order, error) {
	args := m.Called(ctx, ownerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Mutate(ctx context.Context, ownerID, orderID int64, eventType string, fn repository.OrderMutation) (*model.Order, error) {
	args := m.Called(ctx, ownerID, orderID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	order := args.Get(0).(*model.Order)
	working := *order
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.Recalculate()
	*order = working
	return order, args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, ownerID, orderID int64, guard repository.OrderDeleteGuard) error {
	args := m.Called(ctx, ownerID, orderID)
	if args.Get(0) == nil {
		return args.Error(2)
	}
	return guard(args.Get(0).(*model.Order), args.Get(1).(int64))
}

// MockPaymentRepository is a mock implementation of PaymentRepository. Settle
// runs fn against the configured order and remembers the payments it returns.
type MockPaymentRepository struct {
	mock.Mock
	mu       sync.Mutex
	recorded []*model.Payment
}

func (m *MockPaymentRepository) Settle(ctx context.Context, ownerID, orderID int64, fn repository.SettleFunc) (*model.Payment, error) {
	args := m.Called(ctx, ownerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(2)
	}
	order := args.Get(0).(*model.Order)

	m.mu.Lock()
	defer m.mu.Unlock()
	settled := args.Bool(1)
	for _, p := range m.recorded {
		if p.OrderID == order.ID && p.Status != model.PaymentStatusFailed {
			settled = true
		}
	}

	p, err := fn(order, settled)
	if err != nil {
		return nil, err
	}
	p.ID = int64(len(m.recorded) + 1)
	p.OrderID = order.ID
	m.recorded = append(m.recorded, p)
	return p, nil
}

func (m *MockPaymentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Payment, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]*model.Payment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*model.Payment), args.Error(1)
}

type MockGatewayRepository struct {
	mock.Mock
}

func (m *MockGatewayRepository) FindByID(ctx context.Context, id int64) (*model.PaymentGateway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentGateway), args.Error(1)
}

func (m *MockGatewayRepository) List(ctx context.Context) ([]*model.PaymentGateway, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.PaymentGateway), args.Error(1)
}

func (m *MockGatewayRepository) Upsert(ctx context.Context, gw *model.PaymentGateway) error {
	return m.Called(ctx, gw).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// memoryRevocations is an in-memory TokenRevocationStore.
type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: map[string]time.Time{}}
}

func (s *memoryRevocations) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt
	return nil
}

func (s *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

// fakeAdapter is a gateway adapter returning a fixed result and counting calls.
type fakeAdapter struct {
	code   gateway.Code
	result gateway.SettlementResult
	calls  int
	amount decimal.Decimal
	// honorContext makes Process fail once ctx is done, like the real adapters.
	honorContext bool
	delay        time.Duration
}

func (a *fakeAdapter) Code() gateway.Code { return a.code }

func (a *fakeAdapter) Process(ctx context.Context, amount decimal.Decimal) gateway.SettlementResult {
	a.calls++
	a.amount = amount
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
		}
	}
	if a.honorContext && ctx.Err() != nil {
		return gateway.SettlementResult{Status: gateway.SettlementFailed, Raw: map[string]interface{}{"error": ctx.Err().Error()}}
	}
	return a.result
}

// fakeResolver resolves codes from a fixed table.
type fakeResolver map[string]gateway.Adapter

func (r fakeResolver) Resolve(code string) (gateway.Adapter, error) {
	if a, ok := r[code]; ok {
		return a, nil
	}
	return nil, domainErrors.NewUnsupportedGatewayError(code)
}

// spyRecorder records order events and settlements.
type spyRecorder struct {
	mu          sync.Mutex
	events      []string
	settlements []string
}

func (r *spyRecorder) OrderEvent(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *spyRecorder) Settlement(gw, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settlements = append(r.settlements, gw+":"+status)
}

func (r *spyRecorder) AuthAttempt(string, bool) {}
