// Package simulated holds helpers shared by the in-process gateway adapters.
// They mimic provider responses without any network I/O.
package simulated

import (
	"context"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"

	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Options configures an adapter.
type Options struct {
	// Currency is the lower-case ISO code, "usd" when empty.
	Currency string
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

func (o Options) CurrencyOrDefault() string {
	if o.Currency == "" {
		return "usd"
	}
	return strings.ToLower(o.Currency)
}

func (o Options) Clock() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// NewID returns a random alphanumeric identifier of length n.
func NewID(n int) (string, error) {
	return gonanoid.Generate(idAlphabet, n)
}

// MinorUnits converts a two-decimal amount into cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// Failed builds a failed result carrying reason in the raw payload.
func Failed(code gateway.Code, reason string) gateway.SettlementResult {
	return gateway.SettlementResult{
		Status: gateway.SettlementFailed,
		Raw: map[string]interface{}{
			"gateway": string(code),
			"status":  "failed",
			"error":   reason,
		},
	}
}

// Interrupted returns a failed result when ctx is already done.
func Interrupted(ctx context.Context, code gateway.Code) (gateway.SettlementResult, bool) {
	if err := ctx.Err(); err != nil {
		return Failed(code, err.Error()), true
	}
	return gateway.SettlementResult{}, false
}
