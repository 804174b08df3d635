package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status in declaration order.
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled}

// ParseOrderStatus reports whether s names a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Order is a purchase request owned by exactly one user.
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index:idx_orders_user_created,priority:1" json:"user_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time       `gorm:"index:idx_orders_user_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Payments []Payment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// Recalculate keeps TotalAmount equal to Price * Quantity, rounded to cents.
func (o *Order) Recalculate() {
	o.TotalAmount = o.Price.Mul(decimal.NewFromInt(int64(o.Quantity))).Round(2)
}

// IsPending reports whether the order still accepts changes.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
