package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway"
	"github.com/proganas/extendable-order-payment-api/internal/infrastructure/gateway/simulated"
)

func load(path string) ([]*model.PaymentGateway, error) {
	return loadGateways(path, gateway.NewRegistry(simulated.Options{Currency: "usd"}, zap.NewNop()).Supported)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateways.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadGateways(t *testing.T) {
	path := writeFile(t, `
gateways:
  - name: PayPal
    code: paypal
  - name: Stripe
    code: stripe
    is_active: false
`)

	gateways, err := load(path)
	require.NoError(t, err)
	require.Len(t, gateways, 2)

	assert.Equal(t, "PayPal", gateways[0].Name)
	assert.Equal(t, "paypal", gateways[0].Code)
	assert.True(t, gateways[0].IsActive)
	assert.Equal(t, "stripe", gateways[1].Code)
	assert.False(t, gateways[1].IsActive)
}

func TestLoadGateways_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unsupported code", "gateways:\n  - name: Coin\n    code: bitcoin\n", `unsupported code "bitcoin"`},
		{"missing name", "gateways:\n  - code: stripe\n", "name is required"},
		{"bad yaml", "gateways: [", "unmarshal gateways yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadGateways_EmptyAndMissing(t *testing.T) {
	gateways, err := load(writeFile(t, "  \n"))
	require.NoError(t, err)
	assert.Empty(t, gateways)

	_, err = load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadGateways_RejectsCodeWithoutAdapter(t *testing.T) {
	path := writeFile(t, "gateways:\n  - name: Stripe\n    code: stripe\n")
	onlyPayPal := func(code string) bool { return code == "paypal" }

	_, err := loadGateways(path, onlyPayPal)
	assert.ErrorContains(t, err, `unsupported code "stripe"`)
}

func TestRepoGatewaysFile(t *testing.T) {
	gateways, err := load(filepath.Join("..", "..", "configs", "gateways.yaml"))
	require.NoError(t, err)
	require.Len(t, gateways, 2)
	for _, gw := range gateways {
		assert.True(t, gw.IsActive, gw.Code)
	}
}
