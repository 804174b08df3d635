package stripe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
)

func TestAdapter_ProcessBuildsPaymentIntent(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := New(simulated.Options{Currency: "EUR", Now: func() time.Time { return created }}, zap.NewNop())

	res := a.Process(context.Background(), decimal.RequireFromString("30.00"))

	assert.Equal(t, gateway.SettlementSuccessful, res.Status)
	assert.True(t, strings.HasPrefix(res.TransactionID, "stripe_"))
	assert.Equal(t, "pi_"+strings.TrimPrefix(res.TransactionID, "stripe_"), res.Raw["id"])
	assert.Equal(t, "payment_intent", res.Raw["object"])
	assert.Equal(t, int64(3000), res.Raw["amount"])
	assert.Equal(t, "eur", res.Raw["currency"])
	assert.Equal(t, "succeeded", res.Raw["status"])
	assert.Equal(t, created.Unix(), res.Raw["created"])
}
