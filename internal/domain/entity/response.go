package entity

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
)

// Money renders a decimal with exactly two fraction digits, as stored.
type Money string

func NewMoney(d decimal.Decimal) Money {
	return Money(d.StringFixed(2))
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUser(u *model.User) *User {
	return &User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type Order struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Name        string            `json:"name"`
	Price       Money             `json:"price"`
	Quantity    int               `json:"quantity"`
	TotalAmount Money             `json:"total_amount"`
	Status      model.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func NewOrder(o *model.Order) *Order {
	return &Order{
		ID:          o.ID,
		UserID:      o.UserID,
		Name:        o.Name,
		Price:       NewMoney(o.Price),
		Quantity:    o.Quantity,
		TotalAmount: NewMoney(o.TotalAmount),
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func NewOrders(orders []*model.Order) []*Order {
	return lo.Map(orders, func(o *model.Order, _ int) *Order { return NewOrder(o) })
}

// OrderPage is the paginated list response.
type OrderPage struct {
	Data []*Order `json:"data"`
	PaginationMeta
}

func NewOrderPage(p *PaginatedOrders) *OrderPage {
	return &OrderPage{Data: NewOrders(p.Orders), PaginationMeta: p.Meta}
}

type Gateway struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Payment struct {
	ID               int64               `json:"id"`
	OrderID          int64               `json:"order_id"`
	PaymentGatewayID int64               `json:"payment_gateway_id"`
	Status           model.PaymentStatus `json:"status"`
	Amount           Money               `json:"amount"`
	TransactionID    *string             `json:"transaction_id"`
	GatewayResponse  json.RawMessage     `json:"gateway_response,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Order            *Order              `json:"order,omitempty"`
	Gateway          *Gateway            `json:"gateway,omitempty"`
}

func NewPayment(p *model.Payment) *Payment {
	out := &Payment{
		ID:               p.ID,
		OrderID:          p.OrderID,
		PaymentGatewayID: p.PaymentGatewayID,
		Status:           p.Status,
		Amount:           NewMoney(p.Amount),
		TransactionID:    p.TransactionID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if len(p.GatewayResponse) > 0 {
		out.GatewayResponse = json.RawMessage(p.GatewayResponse)
	}
	if p.Order != nil {
		out.Order = NewOrder(p.Order)
	}
	if p.Gateway != nil {
		out.Gateway = &Gateway{ID: p.Gateway.ID, Name: p.Gateway.Name, Code: p.Gateway.Code}
	}
	return out
}

func NewPayments(payments []*model.Payment) []*Payment {
	return lo.Map(payments, func(p *model.Payment, _ int) *Payment { return NewPayment(p) })
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
