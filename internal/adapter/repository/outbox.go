package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainErrors "github.com/proganas/extendable-order-payment-api/internal/domain/errors"
	"github.com/proganas/extendable-order-payment-api/internal/domain/model"
)

// appendEvent stores a domain event inside tx so it commits with the change it describes.
func appendEvent(tx *gorm.DB, aggregateType string, aggregateID int64, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	msg := &model.OutboxMessage{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
		CreatedAt:     time.Now().UTC(),
	}
	if err := tx.Create(msg).Error; err != nil {
		return fmt.Errorf("failed to write %s event: %w", eventType, err)
	}
	return nil
}

// notFoundOr converts gorm.ErrRecordNotFound into the domain NotFound error for
// resource and wraps every other error with msg.
func notFoundOr(err error, resource, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErrors.NewNotFoundError(resource)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
