// Package outbox moves committed domain events from the outbox table to a publisher.
package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/proganas/extendable-order-payment-api/internal/domain/event"
)

// HandleFunc publishes a claimed batch and returns the ids that may be marked processed.
type HandleFunc func(ctx context.Context, messages []event.Envelope) []string

// Store claims unprocessed messages oldest first. Claimed rows stay locked
// until handle returns, so concurrent relays never see the same message.
// Claim reports how many messages were marked processed.
type Store interface {
	Claim(ctx context.Context, limit int, handle HandleFunc) (int, error)
}

// Publisher delivers one message to its destination.
type Publisher interface {
	Publish(ctx context.Context, msg event.Envelope) error
	Close() error
}

// Recorder observes relay progress.
type Recorder interface {
	OutboxPublished(eventType string, ok bool)
	OutboxBatch(size int)
}

type nopRecorder struct{}

func (nopRecorder) OutboxPublished(string, bool) {}
func (nopRecorder) OutboxBatch(int)              {}

// Config tunes polling and retries.
type Config struct {
	Interval      time.Duration
	BatchSize     int
	MaxRetries    uint64
	RetryInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 200 * time.Millisecond
	}
	return c
}

type Relay struct {
	store     Store
	publisher Publisher
	config    Config
	recorder  Recorder
	logger    *zap.Logger
}

func NewRelay(store Store, publisher Publisher, config Config, recorder Recorder, logger *zap.Logger) *Relay {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Relay{
		store:     store,
		publisher: publisher,
		config:    config.withDefaults(),
		recorder:  recorder,
		logger:    logger,
	}
}

// Run polls until ctx is done. Another poll follows right away only when a full
// batch was published; a stuck message waits for the next tick.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("Outbox relay started",
		zap.Duration("interval", r.config.Interval),
		zap.Int("batch_size", r.config.BatchSize))

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		n, err := r.Poll(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("Outbox poll failed", zap.Error(err))
		}
		if err == nil && n == r.config.BatchSize && ctx.Err() == nil {
			continue
		}

		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Poll publishes one batch in creation order and returns how many were delivered.
// The first message that cannot be published ends the batch, so later events are
// never delivered before it.
func (r *Relay) Poll(ctx context.Context) (int, error) {
	return r.store.Claim(ctx, r.config.BatchSize, func(ctx context.Context, messages []event.Envelope) []string {
		r.recorder.OutboxBatch(len(messages))

		done := make([]string, 0, len(messages))
		for _, msg := range messages {
			if err := r.publish(ctx, msg); err != nil {
				r.recorder.OutboxPublished(msg.Type, false)
				r.logger.Warn("Outbox message not published",
					zap.String("id", msg.ID),
					zap.String("type", msg.Type),
					zap.Error(err))
				break
			}
			r.recorder.OutboxPublished(msg.Type, true)
			done = append(done, msg.ID)
		}
		return done
	})
}

func (r *Relay) publish(ctx context.Context, msg event.Envelope) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.RetryInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, r.config.MaxRetries), ctx)
	return backoff.Retry(func() error {
		return r.publisher.Publish(ctx, msg)
	}, policy)
}
