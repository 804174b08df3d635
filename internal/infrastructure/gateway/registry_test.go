package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
)

func newTestRegistry() *Registry {
	return NewRegistry(simulated.Options{Currency: "usd"}, zap.NewNop())
}

func TestRegistry_ResolveKnownCodes(t *testing.T) {
	r := newTestRegistry()

	for _, code := range gateway.Codes {
		t.Run(string(code), func(t *testing.T) {
			adapter, err := r.Resolve(string(code))
			require.NoError(t, err)
			assert.Equal(t, code, adapter.Code())
			assert.True(t, r.Supported(string(code)))
		})
	}
}

func TestRegistry_ResolveIsDeterministic(t *testing.T) {
	r := newTestRegistry()

	first, err := r.Resolve("stripe")
	require.NoError(t, err)
	second, err := r.Resolve("stripe")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistry_ResolveUnknownCode(t *testing.T) {
	r := newTestRegistry()

	for _, code := range []string{"bitcoin", "", "PAYPAL", "Stripe "} {
		adapter, err := r.Resolve(code)
		assert.Nil(t, adapter)
		assert.True(t, errors.Is(err, domainErrors.ErrUnsupportedGateway), "code %q", code)
		assert.False(t, r.Supported(code))
	}
}

func TestAdapters_ProcessSucceedsWithPrefixedTransactionID(t *testing.T) {
	r := newTestRegistry()
	amount := decimal.RequireFromString("30.00")

	for _, code := range gateway.Codes {
		t.Run(string(code), func(t *testing.T) {
			adapter, err := r.Resolve(string(code))
			require.NoError(t, err)

			first := adapter.Process(context.Background(), amount)
			second := adapter.Process(context.Background(), amount)

			assert.Equal(t, gateway.SettlementSuccessful, first.Status)
			assert.False(t, first.Failed())
			assert.True(t, strings.HasPrefix(first.TransactionID, string(code)+"_"), first.TransactionID)
			assert.NotEqual(t, first.TransactionID, second.TransactionID)
			assert.NotEmpty(t, first.Raw)
		})
	}
}

func TestAdapters_ProcessFailsOnDoneContext(t *testing.T) {
	r := newTestRegistry()
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	for _, code := range gateway.Codes {
		adapter, err := r.Resolve(string(code))
		require.NoError(t, err)

		res := adapter.Process(ctx, decimal.NewFromInt(10))
		assert.Equal(t, gateway.SettlementFailed, res.Status)
		assert.True(t, res.Failed())
		assert.Empty(t, res.TransactionID)
		assert.Equal(t, context.DeadlineExceeded.Error(), res.Raw["error"])
	}
}
