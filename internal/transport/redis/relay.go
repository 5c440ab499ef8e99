package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/bonkopoly/bonkopoly-sub000/internal/replication"
)

// Relay carries replication envelopes over redis Pub/Sub, one channel per room.
type Relay struct {
	client *redis.Client
	logger *slog.Logger
}

func New(logger *slog.Logger, client *redis.Client) *Relay {
	return &Relay{
		client: client,
		logger: logger,
	}
}

func channel(roomID string) string {
	return "room:" + roomID + ":events"
}

func (that *Relay) Publish(ctx context.Context, envelope replication.Envelope) error {
	raw, err := envelope.Encode()
	if err != nil {
		return err
	}

	if err = that.client.Publish(ctx, channel(envelope.RoomID), raw).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel(envelope.RoomID), err)
	}

	return nil
}

// Subscribe returns once redis confirmed the subscription. Undecodable messages are dropped.
func (that *Relay) Subscribe(ctx context.Context, roomID string, handler func(replication.Envelope)) (replication.Subscription, error) {
	log := that.logger.With("method", "Subscribe", "room", roomID)

	pubsub := that.client.Subscribe(ctx, channel(roomID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel(roomID), err)
	}

	go func() {
		for message := range pubsub.Channel() {
			envelope, err := replication.Decode([]byte(message.Payload))
			if err != nil {
				log.Debug("dropping undecodable message", "error", err)
				continue
			}

			handler(envelope)
		}
	}()

	log.Info("subscribed", "channel", channel(roomID))

	return pubsub, nil
}
