package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
	pkgmessaging "github.com/proganas/extendable-order-payment-api/pkg/messaging"
)

// RedisPublisher publishes each message on the base channel and on a
// per-aggregate-type channel such as "orderpay.events:payment".
type RedisPublisher struct {
	client  pkgmessaging.RedisClient
	channel string
}

func NewRedisPublisher(client pkgmessaging.RedisClient, channel string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg event.Envelope) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", msg.Type, err)
	}

	if err := p.client.Publish(ctx, p.typedChannel(msg), body); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Type, err)
	}
	if err := p.client.Publish(ctx, p.channel, body); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Type, err)
	}
	return nil
}

func (p *RedisPublisher) typedChannel(msg event.Envelope) string {
	return fmt.Sprintf("%s:%s", p.channel, msg.AggregateType)
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
