package repository

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/migrations"
)

// newTestDB opens an isolated in-memory SQLite database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RevokedToken{},
		&model.PaymentGateway{},
		&model.Order{},
		&model.Payment{},
		&model.OutboxMessage{},
	))
	for _, stmt := range partialIndexes(t) {
		require.NoError(t, db.Exec(stmt).Error, stmt)
	}
	return db
}

// partialIndexes returns the partial unique indexes of the goose up migrations.
// SQLite accepts them verbatim, unlike the postgres table definitions.
func partialIndexes(t *testing.T) []string {
	t.Helper()

	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)

	var stmts []string
	for _, name := range files {
		data, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		up, _, _ := strings.Cut(string(data), "-- +goose Down")
		for _, stmt := range strings.Split(up, ";") {
			stmt = stripComments(stmt)
			if strings.HasPrefix(stmt, "CREATE UNIQUE INDEX") && strings.Contains(stmt, " WHERE ") {
				stmts = append(stmts, stmt)
			}
		}
	}
	require.NotEmpty(t, stmts)
	return stmts
}

func stripComments(stmt string) string {
	var lines []string
	for _, line := range strings.Split(stmt, "\n") {
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "--") {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "Test User", Email: email, PasswordHash: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedGateway(t *testing.T, db *gorm.DB, code string, active bool) *model.PaymentGateway {
	t.Helper()
	gw := &model.PaymentGateway{Name: strings.ToUpper(code), Code: code, IsActive: active}
	require.NoError(t, db.Create(gw).Error)
	return gw
}

func seedOrder(t *testing.T, repo interface {
	Create(ctx context.Context, order *model.Order) error
}, ownerID int64, price string, qty int, status model.OrderStatus) *model.Order {
	t.Helper()
	o := &model.Order{
		UserID:   ownerID,
		Name:     "Widget",
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
		Status:   status,
	}
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func outboxEvents(t *testing.T, db *gorm.DB, aggregateType string, aggregateID int64) []string {
	t.Helper()
	var msgs []model.OutboxMessage
	require.NoError(t, db.Where("aggregate_type = ? AND aggregate_id = ?", aggregateType, aggregateID).Order("created_at, id").Find(&msgs).Error)
	types := make([]string, 0, len(msgs))
	for _, m := range msgs {
		types = append(types, m.EventType)
	}
	return types
}

var nopLogger = zap.NewNop()
