package replication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

// Relay moves envelopes between the peers of a room.
type Relay interface {
	Publish(ctx context.Context, envelope Envelope) error
	Subscribe(ctx context.Context, roomID string, handler func(Envelope)) (Subscription, error)
}

type Subscription interface {
	Close() error
}

// Store persists the latest snapshot of a room.
type Store interface {
	Save(ctx context.Context, roomID string, game *entity.Game) error
}

// Outbox persists and broadcasts envelopes, retrying each step with a constant backoff.
type Outbox struct {
	relay    Relay
	store    Store
	logger   *slog.Logger
	retries  uint64
	interval time.Duration
}

func NewOutbox(logger *slog.Logger, relay Relay, store Store, retries uint64, interval time.Duration) *Outbox {
	return &Outbox{
		relay:    relay,
		store:    store,
		logger:   logger,
		retries:  retries,
		interval: interval,
	}
}

// Send saves the snapshot and publishes the envelope. A failed save does not stop the broadcast.
func (that *Outbox) Send(ctx context.Context, envelope Envelope) error {
	log := that.logger.With("method", "Send", "room", envelope.RoomID, "action", envelope.Meta.Action)

	var saveErr error
	if that.store != nil {
		saveErr = that.retry(ctx, func() error {
			return that.store.Save(ctx, envelope.RoomID, envelope.State)
		})
		if saveErr != nil {
			log.Error("failed to persist snapshot", "error", saveErr)
			saveErr = fmt.Errorf("failed to persist snapshot: %w", saveErr)
		}
	}

	publishErr := that.retry(ctx, func() error {
		return that.relay.Publish(ctx, envelope)
	})
	if publishErr != nil {
		log.Error("failed to publish envelope", "error", publishErr)
		publishErr = fmt.Errorf("failed to publish envelope: %w", publishErr)
	}

	return errors.Join(saveErr, publishErr)
}

func (that *Outbox) retry(ctx context.Context, operation backoff.Operation) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(that.interval), that.retries),
		ctx,
	)

	return backoff.Retry(operation, policy)
}
