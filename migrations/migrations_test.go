package migrations

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_HaveUpAndDown(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		data, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(data), "-- +goose Up", name)
		assert.Contains(t, string(data), "-- +goose Down", name)
	}
}

func TestMigrations_PaymentsCascadeWithOrders(t *testing.T) {
	data, err := fs.ReadFile(FS, "00002_create_orders_and_payments.sql")
	require.NoError(t, err)

	ref := regexp.MustCompile(`order_id\s+BIGINT NOT NULL REFERENCES orders \(id\) ON DELETE (\w+)`).FindStringSubmatch(string(data))
	require.Len(t, ref, 2)
	assert.Equal(t, "CASCADE", ref[1])
	assert.NotContains(t, strings.ToUpper(string(data)), "ON DELETE RESTRICT")
}
