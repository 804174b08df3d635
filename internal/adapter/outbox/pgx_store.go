package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
)

const (
	claimQuery = `SELECT id::text, aggregate_type, aggregate_id, event_type, payload, created_at
FROM outbox_messages
WHERE processed_at IS NULL
ORDER BY created_at, id
LIMIT $1
FOR UPDATE SKIP LOCKED`

	markQuery = `UPDATE outbox_messages SET processed_at = $1 WHERE id = ANY($2::uuid[])`
)

// PgxStore claims outbox rows with FOR UPDATE SKIP LOCKED.
type PgxStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool, now: time.Now}
}

// NewPool opens a pgx pool for databaseURL and checks it is reachable.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func (s *PgxStore) Claim(ctx context.Context, limit int, handle HandleFunc) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin outbox transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, claimQuery, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to claim outbox messages: %w", err)
	}
	messages, err := pgx.CollectRows(rows, scanEnvelope)
	if err != nil {
		return 0, fmt.Errorf("failed to scan outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	done := handle(ctx, messages)
	if len(done) > 0 {
		if _, err := tx.Exec(ctx, markQuery, s.now().UTC(), done); err != nil {
			return 0, fmt.Errorf("failed to mark outbox messages: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit outbox transaction: %w", err)
	}
	return len(done), nil
}

func scanEnvelope(row pgx.CollectableRow) (event.Envelope, error) {
	var (
		env     event.Envelope
		payload []byte
	)
	if err := row.Scan(&env.ID, &env.AggregateType, &env.AggregateID, &env.Type, &payload, &env.CreatedAt); err != nil {
		return event.Envelope{}, err
	}
	env.Payload = json.RawMessage(payload)
	return env, nil
}
