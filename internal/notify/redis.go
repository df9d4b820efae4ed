// Package notify fans game snapshots out of the process.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kavia-common/browser-tic-tac-toe/internal/apperror"
	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
)

const publishTimeout = 2 * time.Second

// Event is the message published for every accepted change.
type Event struct {
	Type     string          `json:"type"`
	Snapshot entity.Snapshot `json:"snapshot"`
	At       time.Time       `json:"at"`
}

const EventGameState = "game:state"

// RedisPublisher - publishes snapshots on a pub/sub channel. Nothing is ever read back.
type RedisPublisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
	closed  atomic.Bool
}

func NewRedisPublisher(ctx context.Context, logger *slog.Logger, addr, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPublisherWithClient(logger, client, channel), nil
}

func NewRedisPublisherWithClient(logger *slog.Logger, client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		logger:  logger.With("component", "redis-publisher", "channel", channel),
		client:  client,
		channel: channel,
	}
}

func (that *RedisPublisher) Publish(ctx context.Context, snapshot entity.Snapshot) error {
	if that.closed.Load() {
		return apperror.ErrPublisherClosed
	}

	payload, err := json.Marshal(Event{
		Type:     EventGameState,
		Snapshot: snapshot,
		At:       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Listener - adapts Publish to a controller listener. Failures are logged and never block the game.
func (that *RedisPublisher) Listener() func(entity.Snapshot) {
	return func(snapshot entity.Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := that.Publish(ctx, snapshot); err != nil {
			that.logger.Error("failed to publish snapshot", "error", err)
		}
	}
}

func (that *RedisPublisher) Close() error {
	if !that.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := that.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
