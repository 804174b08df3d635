// Package messaging는 Redis Pub/Sub 발행 클라이언트를 제공합니다.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisClient는 채널 발행에 필요한 최소 인터페이스입니다.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

type redisClient struct {
	client redis.UniversalClient
}

// WrapRedisClient는 이미 연결된 go-redis 클라이언트를 RedisClient로 감쌉니다.
// 토큰 저장소와 같은 연결을 공유할 수 있습니다.
func WrapRedisClient(client redis.UniversalClient) RedisClient {
	return &redisClient{client: client}
}

// Publish는 메시지를 발행합니다. 구독자가 없어도 에러가 아닙니다.
func (r *redisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := encodePayload(message)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("메시지 발행 실패(%s): %w", channel, err)
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

// encodePayload: []byte, json.RawMessage, string은 그대로 두고 나머지는 JSON으로 직렬화합니다.
func encodePayload(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case []byte:
		return m, nil
	case json.RawMessage:
		return m, nil
	case string:
		return []byte(m), nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("메시지 직렬화 실패: %w", err)
	}
	return payload, nil
}
