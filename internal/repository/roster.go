package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

var ErrRosterNotFound = errors.New("roster not found")

// RosterRepository holds the seats the lobby assigned to a room.
type RosterRepository interface {
	Save(ctx context.Context, roomID string, roster []entity.RosterEntry) error
	Get(ctx context.Context, roomID string) ([]entity.RosterEntry, error)
}

type dbRoster struct {
	client *redis.Client
}

func NewRosterRepository(client *redis.Client) RosterRepository {
	return &dbRoster{
		client: client,
	}
}

func rosterKey(roomID string) string {
	return "roster:" + roomID
}

func (that *dbRoster) Save(ctx context.Context, roomID string, roster []entity.RosterEntry) error {
	rosterJSON, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	if err = that.client.Set(ctx, rosterKey(roomID), rosterJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set roster: %w", err)
	}

	return nil
}

func (that *dbRoster) Get(ctx context.Context, roomID string) ([]entity.RosterEntry, error) {
	response, err := that.client.Get(ctx, rosterKey(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRosterNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	var roster []entity.RosterEntry
	if err = json.Unmarshal([]byte(response), &roster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster: %w", err)
	}

	return roster, nil
}
