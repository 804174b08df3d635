package stripe

import (
	"context"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
)

// Adapter settles payments as an automatically captured Stripe PaymentIntent.
type Adapter struct {
	opts   simulated.Options
	logger *zap.Logger
}

// New creates a Stripe adapter
func New(opts simulated.Options, logger *zap.Logger) *Adapter {
	return &Adapter{opts: opts, logger: logger}
}

func (a *Adapter) Code() gateway.Code {
	return gateway.CodeStripe
}

// Process confirms a PaymentIntent for amount and returns it as the raw payload.
func (a *Adapter) Process(ctx context.Context, amount decimal.Decimal) gateway.SettlementResult {
	if res, done := simulated.Interrupted(ctx, gateway.CodeStripe); done {
		a.logger.Warn("Stripe settlement interrupted", zap.Error(ctx.Err()))
		return res
	}

	id, err := simulated.NewID(24)
	if err != nil {
		a.logger.Error("Failed to generate Stripe payment intent id", zap.Error(err))
		return simulated.Failed(gateway.CodeStripe, "could not allocate transaction id")
	}

	minor := simulated.MinorUnits(amount)
	intent := &stripego.PaymentIntent{
		ID:                 "pi_" + id,
		Object:             "payment_intent",
		Amount:             minor,
		AmountReceived:     minor,
		Currency:           stripego.Currency(a.opts.CurrencyOrDefault()),
		Status:             stripego.PaymentIntentStatusSucceeded,
		CaptureMethod:      stripego.PaymentIntentCaptureMethodAutomatic,
		PaymentMethodTypes: []string{"card"},
		Created:            a.opts.Clock().Unix(),
		Livemode:           false,
	}

	return gateway.SettlementResult{
		Status:        gateway.SettlementSuccessful,
		TransactionID: "stripe_" + id,
		Raw:           intentPayload(intent),
	}
}

func intentPayload(pi *stripego.PaymentIntent) map[string]interface{} {
	return map[string]interface{}{
		"id":                   pi.ID,
		"object":               pi.Object,
		"amount":               pi.Amount,
		"amount_received":      pi.AmountReceived,
		"currency":             string(pi.Currency),
		"status":               string(pi.Status),
		"capture_method":       string(pi.CaptureMethod),
		"payment_method_types": pi.PaymentMethodTypes,
		"created":              pi.Created,
		"livemode":             pi.Livemode,
	}
}
