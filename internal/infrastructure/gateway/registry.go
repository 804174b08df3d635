package gateway

import (
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/gateway"
	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/paypal"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/stripe"
)

type constructor func(opts simulated.Options, logger *zap.Logger) gateway.Adapter

var constructors = map[gateway.Code]constructor{
	gateway.CodePayPal: func(opts simulated.Options, logger *zap.Logger) gateway.Adapter {
		return paypal.New(opts, logger)
	},
	gateway.CodeStripe: func(opts simulated.Options, logger *zap.Logger) gateway.Adapter {
		return stripe.New(opts, logger)
	},
}

// Registry resolves gateway codes to adapters. Adapters are stateless, so one
// instance per code is built up front and shared.
type Registry struct {
	adapters map[gateway.Code]gateway.Adapter
}

// NewRegistry creates a registry holding every supported adapter
func NewRegistry(opts simulated.Options, logger *zap.Logger) *Registry {
	adapters := make(map[gateway.Code]gateway.Adapter, len(constructors))
	for _, code := range gateway.Codes {
		adapters[code] = constructors[code](opts, logger.With(zap.String("gateway", string(code))))
	}
	return &Registry{adapters: adapters}
}

// Resolve returns the adapter registered for code or an UnsupportedGateway error.
func (r *Registry) Resolve(code string) (gateway.Adapter, error) {
	adapter, ok := r.adapters[gateway.Code(code)]
	if !ok {
		return nil, domainErrors.NewUnsupportedGatewayError(code)
	}
	return adapter, nil
}

// Supported reports whether code has a registered adapter.
func (r *Registry) Supported(code string) bool {
	_, ok := r.adapters[gateway.Code(code)]
	return ok
}
