package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	domainRepo "github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// revokedTokenRepository keeps the revocation list in the database when no
// Redis server is configured.
type revokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) domainRepo.TokenRevocationStore {
	return &revokedTokenRepository{db: db}
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.RevokedToken{JTI: jti, ExpiresAt: expiresAt.UTC()}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RevokedToken{}).
		Where("jti = ? AND expires_at > ?", jti, time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}

// PurgeExpiredRevocations deletes revocations whose tokens have expired anyway.
func PurgeExpiredRevocations(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&model.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
