// Package gateway defines the settlement contract implemented by payment providers.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Code identifies a supported provider. The set is closed: a new provider
// needs a new Code and a constructor registered with the registry.
type Code string

const (
	CodePayPal Code = "paypal"
	CodeStripe Code = "stripe"
)

// Codes lists every supported provider.
var Codes = []Code{CodePayPal, CodeStripe}

// SettlementStatus is the outcome of a single Process call.
type SettlementStatus string

const (
	SettlementSuccessful SettlementStatus = "successful"
	SettlementFailed     SettlementStatus = "failed"
)

// SettlementResult is what a provider reports back for one settlement attempt.
type SettlementResult struct {
	Status        SettlementStatus
	TransactionID string
	// Raw is the provider-shaped payload persisted as the payment's gateway response.
	Raw map[string]interface{}
}

// Failed reports whether the attempt was declined or could not complete.
func (r SettlementResult) Failed() bool {
	return r.Status != SettlementSuccessful
}

// Adapter settles an amount with one provider. Process never returns an error:
// provider declines and expired contexts come back as a failed result.
type Adapter interface {
	Code() Code
	Process(ctx context.Context, amount decimal.Decimal) SettlementResult
}

// Resolver maps a gateway code to its adapter.
type Resolver interface {
	Resolve(code string) (Adapter, error)
}
