package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisEnvelope carries the message key, which pub/sub has no slot for.
type redisEnvelope struct {
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBroker publishes events over Redis Pub/Sub.
type RedisBroker struct {
	rdb *redis.Client
}

// NewRedisBroker creates a broker on top of an existing client.
func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

// EncodeRedisMessage wraps payload and key into the envelope sent on the channel.
func EncodeRedisMessage(key string, payload []byte) ([]byte, error) {
	data, err := json.Marshal(redisEnvelope{Key: key, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// Publish sends the envelope to the channel named topic.
func (b *RedisBroker) Publish(ctx context.Context, topic, key string, payload []byte) error {
	data, err := EncodeRedisMessage(key, payload)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}
