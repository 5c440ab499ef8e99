package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/config"
	"github.com/bonkopoly/bonkopoly-sub000/internal/engine"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
	"github.com/bonkopoly/bonkopoly-sub000/internal/pkg"
	"github.com/bonkopoly/bonkopoly-sub000/internal/replication"
	"github.com/bonkopoly/bonkopoly-sub000/internal/repository"
	"github.com/bonkopoly/bonkopoly-sub000/internal/repository/storage"
	relay "github.com/bonkopoly/bonkopoly-sub000/internal/transport/redis"
	"github.com/bonkopoly/bonkopoly-sub000/internal/usecase"
	"github.com/bonkopoly/bonkopoly-sub000/transport/rest"
	"github.com/bonkopoly/bonkopoly-sub000/transport/websocket"
)

var (
	ErrAddrNotFound = errors.New("redis address string is empty")
	ErrNoIdentity   = errors.New("room-id and player-id are required")
)

// RunApp - runs one peer of a room.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	if conf.RoomID == "" || conf.PlayerID == "" {
		return ErrNoIdentity
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage)
	rosterRepo := repository.NewRosterRepository(redisStorage)

	if err = seedRoster(ctx, log, rosterRepo, conf); err != nil {
		return err
	}

	roomRelay := relay.New(logger, redisStorage)
	outbox := replication.NewOutbox(logger, roomRelay, gameRepo, conf.Replication.MaxRetries, conf.Replication.RetryInterval)
	gameEngine := engine.New(conf.Rules, engine.NewRandomDice(time.Now().UnixNano()), pkg.GenerateID)

	session := usecase.NewSession(logger, usecase.Options{
		RoomID:        conf.RoomID,
		PlayerID:      conf.PlayerID,
		SweepInterval: conf.Replication.SweepInterval,
		Seed:          time.Now().UnixNano(),
	}, gameEngine, gameRepo, rosterRepo, roomRelay, outbox)

	// run game session
	sessionErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting game session", "room", conf.RoomID, "player", conf.PlayerID)
		sessionErrCh <- session.Run(ctx)
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, session).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, session)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-sessionErrCh:
		if err != nil {
			return fmt.Errorf("game session error: %w", err)
		}
		return nil
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

type rosterStore interface {
	Save(ctx context.Context, roomID string, roster []entity.RosterEntry) error
	Get(ctx context.Context, roomID string) ([]entity.RosterEntry, error)
}

// seedRoster stores the configured roster unless the room already has one.
func seedRoster(ctx context.Context, log *slog.Logger, rosters rosterStore, conf *config.Config) error {
	if len(conf.Roster) == 0 {
		return nil
	}

	_, err := rosters.Get(ctx, conf.RoomID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, repository.ErrRosterNotFound) {
		return fmt.Errorf("failed to read roster: %w", err)
	}

	roster := make([]entity.RosterEntry, 0, len(conf.Roster))
	for _, seat := range conf.Roster {
		roster = append(roster, entity.RosterEntry{
			Name:       seat.Name,
			Color:      seat.Color,
			Icon:       seat.Icon,
			ExternalID: seat.ExternalID,
		})
	}

	if err = rosters.Save(ctx, conf.RoomID, roster); err != nil {
		return fmt.Errorf("failed to seed roster: %w", err)
	}

	log.Info("seeded room roster", "room", conf.RoomID, "players", len(roster))

	return nil
}
