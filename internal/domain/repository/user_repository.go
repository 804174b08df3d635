package repository

import (
	"context"
	"time"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
)

// UserRepository defines persistence for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenRevocationStore remembers logged-out token IDs until their expiry.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
