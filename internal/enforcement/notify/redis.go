package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces the pub/sub channels so several deployments can
// share one Redis.
const channelPrefix = "enforcement:"

// RedisNotifier publishes refresh events over Redis pub/sub so dashboards on
// other instances can react. Same contract as MemoryBus, different transport.
type RedisNotifier struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisNotifier(client *redis.Client, logger *slog.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

func (n *RedisNotifier) Publish(ctx context.Context, topic string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notify payload: %w", err)
	}
	if err := n.client.Publish(ctx, channelPrefix+topic, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe bridges a Redis subscription onto the Subscriber contract.
// Malformed payloads from the wire are logged and skipped rather than killing
// the subscription.
func (n *RedisNotifier) Subscribe(topic string) (<-chan Payload, func()) {
	sub := n.client.Subscribe(context.Background(), channelPrefix+topic)
	out := make(chan Payload, defaultSubscriberBuffer)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var payload Payload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				n.logger.Warn("discarding malformed notify payload",
					"topic", topic,
					"error", err.Error(),
				)
				continue
			}
			select {
			case out <- payload:
			default:
				// Subscriber is not draining; latest-event semantics make
				// dropping safe.
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return out, cancel
}
