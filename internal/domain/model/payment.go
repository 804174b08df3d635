package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentStatus is the outcome recorded for a settlement attempt.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// PaymentGateway is seeded reference data naming a settlement provider.
type PaymentGateway struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Code      string    `gorm:"size:50;not null;uniqueIndex" json:"code"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentGateway) TableName() string {
	return "payment_gateways"
}

// Payment is an immutable record of one settlement attempt against an order.
type Payment struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64           `gorm:"not null;index" json:"order_id"`
	PaymentGatewayID int64           `gorm:"column:payment_gateway_id;not null;index" json:"payment_gateway_id"`
	Status           PaymentStatus   `gorm:"size:20;not null" json:"status"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	TransactionID    *string         `gorm:"column:transaction_id;size:100" json:"transaction_id"`
	GatewayResponse  datatypes.JSON  `gorm:"column:gateway_response" json:"gateway_response,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relations
	Order   *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Gateway *PaymentGateway `gorm:"foreignKey:PaymentGatewayID" json:"gateway,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
