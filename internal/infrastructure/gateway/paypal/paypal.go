package paypal

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
)

// Adapter settles payments the way a captured PayPal order would report them.
type Adapter struct {
	opts   simulated.Options
	logger *zap.Logger
}

// New creates a PayPal adapter
func New(opts simulated.Options, logger *zap.Logger) *Adapter {
	return &Adapter{opts: opts, logger: logger}
}

func (a *Adapter) Code() gateway.Code {
	return gateway.CodePayPal
}

// Process captures amount and returns a PayPal-order-shaped payload.
func (a *Adapter) Process(ctx context.Context, amount decimal.Decimal) gateway.SettlementResult {
	if res, done := simulated.Interrupted(ctx, gateway.CodePayPal); done {
		a.logger.Warn("PayPal settlement interrupted", zap.Error(ctx.Err()))
		return res
	}

	id, err := simulated.NewID(17)
	if err != nil {
		a.logger.Error("Failed to generate PayPal order id", zap.Error(err))
		return simulated.Failed(gateway.CodePayPal, "could not allocate transaction id")
	}
	orderID := strings.ToUpper(id)
	now := a.opts.Clock().UTC().Format(time.RFC3339)
	value := amount.StringFixed(2)
	currency := strings.ToUpper(a.opts.CurrencyOrDefault())

	return gateway.SettlementResult{
		Status:        gateway.SettlementSuccessful,
		TransactionID: "paypal_" + id,
		Raw: map[string]interface{}{
			"id":          orderID,
			"intent":      "CAPTURE",
			"status":      "COMPLETED",
			"create_time": now,
			"update_time": now,
			"purchase_units": []interface{}{
				map[string]interface{}{
					"amount": map[string]interface{}{
						"currency_code": currency,
						"value":         value,
					},
					"payments": map[string]interface{}{
						"captures": []interface{}{
							map[string]interface{}{
								"id":     "CAP" + orderID,
								"status": "COMPLETED",
								"amount": map[string]interface{}{
									"currency_code": currency,
									"value":         value,
								},
								"final_capture": true,
							},
						},
					},
				},
			},
		},
	}
}
