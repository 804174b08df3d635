// Package mail sends payment receipts for settled payments.
package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/proganas/extendable-order-payment-api/internal/config"
	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
	"github.com/proganas/extendable-order-payment-api/internal/domain/repository"
)

// Sender delivers prepared messages. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// ReceiptNotifier is an outbox publisher that mails the order owner when a
// payment succeeds. Delivery is best effort: failures are logged and the
// message still counts as published.
type ReceiptNotifier struct {
	sender Sender
	from   string
	users  repository.UserRepository
	logger *zap.Logger
}

// NewReceiptNotifier creates a notifier sending through the configured SMTP server.
func NewReceiptNotifier(cfg config.MailConfig, users repository.UserRepository, logger *zap.Logger) *ReceiptNotifier {
	return NewReceiptNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, users, logger)
}

func NewReceiptNotifierWithSender(sender Sender, from string, users repository.UserRepository, logger *zap.Logger) *ReceiptNotifier {
	return &ReceiptNotifier{
		sender: sender,
		from:   from,
		users:  users,
		logger: logger.Named("mail"),
	}
}

func (n *ReceiptNotifier) Publish(ctx context.Context, msg event.Envelope) error {
	if msg.Type != model.EventPaymentSettled {
		return nil
	}

	var settled event.PaymentSettled
	if err := json.Unmarshal(msg.Payload, &settled); err != nil {
		n.logger.Warn("Skipping undecodable payment event", zap.String("id", msg.ID), zap.Error(err))
		return nil
	}
	if settled.Status != model.PaymentStatusSuccessful {
		return nil
	}

	user, err := n.users.FindByID(ctx, settled.UserID)
	if err != nil {
		n.logger.Warn("Receipt recipient not found",
			zap.Int64("user_id", settled.UserID),
			zap.Error(err))
		return nil
	}

	if err := n.sender.DialAndSend(n.receipt(user, settled)); err != nil {
		n.logger.Error("Failed to send receipt",
			zap.Int64("payment_id", settled.PaymentID),
			zap.Error(err))
		return nil
	}

	n.logger.Info("Receipt sent",
		zap.Int64("payment_id", settled.PaymentID),
		zap.Int64("user_id", user.ID))
	return nil
}

func (n *ReceiptNotifier) Close() error { return nil }

func (n *ReceiptNotifier) receipt(user *model.User, p event.PaymentSettled) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetAddressHeader("To", user.Email, user.Name)
	m.SetHeader("Subject", fmt.Sprintf("Payment receipt for order #%d", p.OrderID))
	m.SetBody("text/plain", receiptBody(user, p))
	return m
}

func receiptBody(user *model.User, p event.PaymentSettled) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.Name)
	fmt.Fprintf(&b, "We received your payment for order #%d (%s).\n\n", p.OrderID, p.OrderName)
	fmt.Fprintf(&b, "Amount:      %s\n", p.Amount)
	if p.TransactionID != "" {
		fmt.Fprintf(&b, "Transaction: %s\n", p.TransactionID)
	}
	fmt.Fprintf(&b, "Date:        %s\n", p.OccurredAt.UTC().Format("2006-01-02 15:04 MST"))
	return b.String()
}
