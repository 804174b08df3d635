package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Aggregate types carried by outbox messages.
const (
	AggregateOrder   = "order"
	AggregatePayment = "payment"
)

// Event types written to the outbox.
const (
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
	EventOrderDeleted   = "order.deleted"
	EventPaymentSettled = "payment.settled"
)

// OutboxMessage is a domain event stored in the same transaction as the change it describes.
type OutboxMessage struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AggregateType string         `gorm:"size:50;not null"`
	AggregateID   int64          `gorm:"not null"`
	EventType     string         `gorm:"size:100;not null"`
	Payload       datatypes.JSON `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"not null"`
	ProcessedAt   *time.Time     `gorm:"index"`
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}
