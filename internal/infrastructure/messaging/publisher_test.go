package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/config"
	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
	pkgmessaging "github.com/proganas/extendable-order-payment-api/pkg/messaging"
)

type MockRedisClient struct {
	mock.Mock
}

var _ pkgmessaging.RedisClient = (*MockRedisClient)(nil)

func (m *MockRedisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	return m.Called(ctx, channel, message).Error(0)
}

func (m *MockRedisClient) Close() error {
	return m.Called().Error(0)
}

func sampleEnvelope() event.Envelope {
	return event.Envelope{
		ID:            "6f1c",
		AggregateType: "payment",
		AggregateID:   12,
		Type:          "payment.settled",
		Payload:       json.RawMessage(`{"payment_id":12}`),
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewPublisher(t *testing.T) {
	logger := zap.NewNop()

	p, err := NewPublisher(config.OutboxConfig{Publisher: config.PublisherLog}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)

	p, err = NewPublisher(config.OutboxConfig{Publisher: config.PublisherKafka, Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)

	_, err = NewPublisher(config.OutboxConfig{Publisher: config.PublisherRedis}, nil, logger)
	assert.Error(t, err)

	p, err = NewPublisher(config.OutboxConfig{Publisher: config.PublisherRedis}, new(MockRedisClient), logger)
	require.NoError(t, err)
	assert.IsType(t, &RedisPublisher{}, p)

	_, err = NewPublisher(config.OutboxConfig{Publisher: "carrier-pigeon"}, nil, logger)
	assert.ErrorContains(t, err, "unknown outbox publisher")
}

func TestKafkaMessage(t *testing.T) {
	msg := sampleEnvelope()

	km, err := kafkaMessage(msg)
	require.NoError(t, err)

	assert.Equal(t, "payment-12", string(km.Key))
	assert.Equal(t, msg.CreatedAt, km.Time)
	require.Len(t, km.Headers, 2)
	assert.Equal(t, "payment.settled", string(km.Headers[0].Value))

	var decoded event.Envelope
	require.NoError(t, json.Unmarshal(km.Value, &decoded))
	assert.Equal(t, msg.ID, decoded.ID)
	assert.JSONEq(t, `{"payment_id":12}`, string(decoded.Payload))
}

func TestRedisPublisher_PublishesToBothChannels(t *testing.T) {
	client := new(MockRedisClient)
	client.On("Publish", mock.Anything, "orderpay.events:payment", mock.Anything).Return(nil)
	client.On("Publish", mock.Anything, "orderpay.events", mock.Anything).Return(nil)

	p := NewRedisPublisher(client, "orderpay.events")
	require.NoError(t, p.Publish(context.Background(), sampleEnvelope()))
	client.AssertExpectations(t)
}

func TestRedisPublisher_Error(t *testing.T) {
	client := new(MockRedisClient)
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	p := NewRedisPublisher(client, "orderpay.events")
	err := p.Publish(context.Background(), sampleEnvelope())
	assert.ErrorContains(t, err, "failed to publish payment.settled")
}

type recordingPublisher struct {
	name string
	seen *[]string
	err  error
}

func (p recordingPublisher) Publish(_ context.Context, _ event.Envelope) error {
	*p.seen = append(*p.seen, p.name)
	return p.err
}

func (p recordingPublisher) Close() error { return nil }

func TestFanout(t *testing.T) {
	var seen []string
	f := Fanout{
		recordingPublisher{name: "a", seen: &seen},
		recordingPublisher{name: "b", seen: &seen, err: errors.New("down")},
		recordingPublisher{name: "c", seen: &seen},
	}

	err := f.Publish(context.Background(), sampleEnvelope())
	assert.EqualError(t, err, "down")
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.NoError(t, f.Close())
}
