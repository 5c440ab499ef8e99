package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

// GameRepository keeps the latest snapshot of every room.
type GameRepository interface {
	Save(ctx context.Context, roomID string, game *entity.Game) error
	Load(ctx context.Context, roomID string) (*entity.Game, error)
	Delete(ctx context.Context, roomID string) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(roomID string) string {
	return "game:" + roomID
}

func (that *dbGame) Save(ctx context.Context, roomID string, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameKey(roomID), gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

// Load returns ErrGameNotFound when the room has no snapshot yet.
func (that *dbGame) Load(ctx context.Context, roomID string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal([]byte(response), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	if len(game.Players) == 0 {
		return nil, ErrGameNotFound
	}

	return &game, nil
}

func (that *dbGame) Delete(ctx context.Context, roomID string) error {
	if err := that.client.Del(ctx, gameKey(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}
