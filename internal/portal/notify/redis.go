package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

const eventChannelPrefix = "portal:events:" // portal:events:{workspace}

// EventChannel is the Pub/Sub channel carrying a workspace's notifications.
func EventChannel(workspaceID string) string {
	return eventChannelPrefix + workspaceID
}

// RedisPublisher publishes notifications on the workspace's Pub/Sub channel
// so other replicas and external listeners can follow along. Publish
// failures are logged and otherwise ignored.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(client *redis.Client, workspaceID string, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{client: client, channel: EventChannel(workspaceID), logger: logger}
}

func (p *RedisPublisher) Notify(ctx context.Context, n domain.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		p.logger.Warn("failed to marshal notification", zap.Error(err))
		return
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Warn("failed to publish notification",
			zap.String("channel", p.channel), zap.Error(err))
	}
}

// DecodeEvent parses a message received on an event channel.
func DecodeEvent(msg *redis.Message) (domain.Notification, error) {
	var n domain.Notification
	if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
		return n, fmt.Errorf("decode notification: %w", err)
	}
	return n, nil
}
