// Package messaging provides the destinations the outbox relay publishes to.
package messaging

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/adapter/outbox"
	"github.com/proganas/extendable-order-payment-api/internal/config"
	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
	pkgmessaging "github.com/proganas/extendable-order-payment-api/pkg/messaging"
)

// NewPublisher builds the publisher selected by cfg.Publisher. redis is only
// needed for the redis publisher.
func NewPublisher(cfg config.OutboxConfig, redis pkgmessaging.RedisClient, logger *zap.Logger) (outbox.Publisher, error) {
	switch cfg.Publisher {
	case config.PublisherLog, "":
		return NewLogPublisher(logger), nil
	case config.PublisherKafka:
		return NewKafkaPublisher(cfg.Kafka, logger), nil
	case config.PublisherRedis:
		if redis == nil {
			return nil, errors.New("redis publisher requires a redis client")
		}
		return NewRedisPublisher(redis, cfg.Redis.Channel), nil
	default:
		return nil, fmt.Errorf("unknown outbox publisher %q", cfg.Publisher)
	}
}

// LogPublisher writes every message to the log. Useful without a broker.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("outbox")}
}

func (p *LogPublisher) Publish(_ context.Context, msg event.Envelope) error {
	p.logger.Info("Event published",
		zap.String("id", msg.ID),
		zap.String("type", msg.Type),
		zap.String("aggregate_type", msg.AggregateType),
		zap.Int64("aggregate_id", msg.AggregateID),
		zap.ByteString("payload", msg.Payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Fanout publishes to each publisher in turn and stops at the first error.
type Fanout []outbox.Publisher

func (f Fanout) Publish(ctx context.Context, msg event.Envelope) error {
	for _, p := range f {
		if err := p.Publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
