// Package event defines the payloads written to the outbox and published to consumers.
package event

import (
	"encoding/json"
	"time"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
)

// Order is the payload of every order.* event.
type Order struct {
	OrderID     int64             `json:"order_id"`
	UserID      int64             `json:"user_id"`
	Name        string            `json:"name"`
	Price       string            `json:"price"`
	Quantity    int               `json:"quantity"`
	TotalAmount string            `json:"total_amount"`
	Status      model.OrderStatus `json:"status"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func NewOrder(o *model.Order, at time.Time) Order {
	return Order{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Name:        o.Name,
		Price:       o.Price.StringFixed(2),
		Quantity:    o.Quantity,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      o.Status,
		OccurredAt:  at,
	}
}

// PaymentSettled is the payload of payment.settled.
type PaymentSettled struct {
	PaymentID        int64               `json:"payment_id"`
	OrderID          int64               `json:"order_id"`
	OrderName        string              `json:"order_name"`
	UserID           int64               `json:"user_id"`
	PaymentGatewayID int64               `json:"payment_gateway_id"`
	Status           model.PaymentStatus `json:"status"`
	Amount           string              `json:"amount"`
	TransactionID    string              `json:"transaction_id,omitempty"`
	OccurredAt       time.Time           `json:"occurred_at"`
}

func NewPaymentSettled(p *model.Payment, o *model.Order, at time.Time) PaymentSettled {
	e := PaymentSettled{
		PaymentID:        p.ID,
		OrderID:          p.OrderID,
		OrderName:        o.Name,
		UserID:           o.UserID,
		PaymentGatewayID: p.PaymentGatewayID,
		Status:           p.Status,
		Amount:           p.Amount.StringFixed(2),
		OccurredAt:       at,
	}
	if p.TransactionID != nil {
		e.TransactionID = *p.TransactionID
	}
	return e
}

// Envelope is the message published by the outbox relay.
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   int64           `json:"aggregate_id"`
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
}
