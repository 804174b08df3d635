package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/proganas/extendable-order-payment-api/internal/adapter/repository"
	domainRepo "github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	User    domainRepo.UserRepository
	Order   domainRepo.OrderRepository
	Payment domainRepo.PaymentRepository
	Gateway domainRepo.GatewayRepository
	Revoked domainRepo.TokenRevocationStore
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:    repository.NewUserRepository(db, logger),
		Order:   repository.NewOrderRepository(db, logger),
		Payment: repository.NewPaymentRepository(db, logger),
		Gateway: repository.NewGatewayRepository(db, logger),
		Revoked: repository.NewRevokedTokenRepository(db),
	}
}
