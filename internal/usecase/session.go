package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/engine"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
	"github.com/bonkopoly/bonkopoly-sub000/internal/replication"
	"github.com/bonkopoly/bonkopoly-sub000/internal/repository"
)

var (
	ErrSessionStopped = errors.New("session is not running")
	ErrNoRoster       = errors.New("room has neither a saved game nor a roster")
)

type gameRepo interface {
	Save(ctx context.Context, roomID string, game *entity.Game) error
	Load(ctx context.Context, roomID string) (*entity.Game, error)
}

type rosterRepo interface {
	Get(ctx context.Context, roomID string) ([]entity.RosterEntry, error)
}

// Listener observes every snapshot the session adopts, rejected local actions included.
// Events are empty for remote snapshots.
type Listener func(game *entity.Game, events []entity.Event)

type Options struct {
	RoomID        string
	PlayerID      string
	SweepInterval time.Duration
	Seed          int64
	Clock         func() time.Time
}

type step struct {
	action  string
	payload any
	// when, if set, ends the command before this step unless it holds for the current state.
	when  func(game *entity.Game) bool
	apply func(game *entity.Game, now time.Time) error
}

type command struct {
	playerID string
	steps    []step
	done     chan error
}

// delivery is one envelope waiting for the sender. done, when set, receives the send result.
type delivery struct {
	ctx      context.Context
	envelope replication.Envelope
	done     chan error
}

// Session owns the game of one room. Local commands and remote envelopes are applied
// one at a time by the Run loop; readers get the last committed snapshot without blocking.
type Session struct {
	logger  *slog.Logger
	engine  *engine.Engine
	games   gameRepo
	rosters rosterRepo
	relay   replication.Relay
	outbox  *replication.Outbox

	roomID string
	self   string
	sweep  time.Duration
	seed   int64
	clock  func() time.Time

	commands chan command
	inbox    chan replication.Envelope
	outgoing chan delivery
	running  chan struct{}
	stopped  chan struct{}

	current *entity.Game
	view    atomic.Pointer[entity.Game]

	mu        sync.RWMutex
	listeners []Listener

	sends sync.WaitGroup
}

func NewSession(
	logger *slog.Logger,
	opts Options,
	eng *engine.Engine,
	games gameRepo,
	rosters rosterRepo,
	relay replication.Relay,
	outbox *replication.Outbox,
) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	sweep := opts.SweepInterval
	if sweep <= 0 {
		sweep = time.Second
	}

	return &Session{
		logger:   logger.With("component", "session", "room", opts.RoomID, "player", opts.PlayerID),
		engine:   eng,
		games:    games,
		rosters:  rosters,
		relay:    relay,
		outbox:   outbox,
		roomID:   opts.RoomID,
		self:     opts.PlayerID,
		sweep:    sweep,
		seed:     opts.Seed,
		clock:    clock,
		commands: make(chan command),
		inbox:    make(chan replication.Envelope, 64),
		outgoing: make(chan delivery, 64),
		running:  make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Subscribe registers a listener. It is called from the session loop and must not block.
func (that *Session) Subscribe(listener Listener) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.listeners = append(that.listeners, listener)
}

// Snapshot returns the last committed state, nil before the session started.
// The returned game is shared and must be treated as read only.
func (that *Session) Snapshot() *entity.Game {
	return that.view.Load()
}

func (that *Session) RoomID() string {
	return that.roomID
}

func (that *Session) PlayerID() string {
	return that.self
}

// Running is closed once the snapshot is loaded and commands are accepted.
func (that *Session) Running() <-chan struct{} {
	return that.running
}

// Run loads or creates the room's game, joins the relay and serves commands until ctx ends.
func (that *Session) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	defer close(that.stopped)

	game, err := that.loadOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	that.commit(game, game.DrainEvents())

	sub, err := that.relay.Subscribe(ctx, that.roomID, func(envelope replication.Envelope) {
		select {
		case that.inbox <- envelope:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	defer func() {
		if closeErr := sub.Close(); closeErr != nil {
			log.Error("failed to close subscription", "error", closeErr)
		}
		close(that.outgoing)
		that.sends.Wait()
	}()

	that.sends.Add(1)
	go that.deliver()

	ticker := time.NewTicker(that.sweep)
	defer ticker.Stop()

	close(that.running)
	log.Info("session started", "revision", game.Revision)

	for {
		select {
		case cmd := <-that.commands:
			cmd.done <- that.handle(ctx, cmd)
		case envelope := <-that.inbox:
			that.merge(envelope)
		case <-ticker.C:
			that.tick(ctx)
		case <-ctx.Done():
			log.Info("session stopped")
			return nil
		}
	}
}

func (that *Session) loadOrCreate(ctx context.Context) (*entity.Game, error) {
	log := that.logger.With("method", "loadOrCreate")

	game, err := that.games.Load(ctx, that.roomID)
	if err == nil {
		log.Info("resumed saved game", "revision", game.Revision)
		return game, nil
	}

	if !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	roster, err := that.rosters.Get(ctx, that.roomID)
	if errors.Is(err, repository.ErrRosterNotFound) {
		return nil, ErrNoRoster
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	rules := that.engine.Rules()
	game, err = entity.NewGame(that.roomID, roster, rules.StartingCash, rules.LogCapacity, rand.New(rand.NewSource(that.seed))) //nolint: gosec // deck order
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.games.Save(ctx, that.roomID, game); err != nil {
		return nil, fmt.Errorf("failed to save new game: %w", err)
	}

	log.Info("created game from roster", "players", len(roster))

	return game, nil
}

// handle applies the steps of a command in order. Every step but the last is broadcast
// synchronously before the next one runs; a failed broadcast is logged and does not stop the chain.
func (that *Session) handle(ctx context.Context, cmd command) error {
	log := that.logger.With("method", "handle", "actor", cmd.playerID)

	for i, next := range cmd.steps {
		if next.when != nil && !next.when(that.current) {
			return nil
		}

		now := that.clock()
		working := that.current.Clone()

		if err := next.apply(working, now); err != nil {
			log.Info("action rejected", "action", next.action, "error", err)
			that.commit(working, working.DrainEvents())
			return err
		}

		replication.Stamp(working, cmd.playerID)
		that.commit(working, working.DrainEvents())

		envelope, err := replication.NewEnvelope(that.roomID, working, cmd.playerID, next.action, next.payload, now)
		if err != nil {
			log.Error("failed to build envelope", "action", next.action, "error", err)
			continue
		}

		if i < len(cmd.steps)-1 && (cmd.steps[i+1].when == nil || cmd.steps[i+1].when(working)) {
			if err = that.sendSync(ctx, envelope); err != nil {
				log.Warn("broadcast failed, continuing", "action", next.action, "error", err)
			}
			continue
		}

		that.sendAsync(ctx, envelope)
	}

	return nil
}

// deliver persists and publishes envelopes one at a time in commit order,
// so the stored snapshot never falls behind the last committed one.
func (that *Session) deliver() {
	defer that.sends.Done()

	for next := range that.outgoing {
		err := that.outbox.Send(next.ctx, next.envelope)
		if next.done != nil {
			next.done <- err
			continue
		}

		if err != nil {
			that.logger.Warn("broadcast failed", "action", next.envelope.Meta.Action, "error", err)
		}
	}
}

// sendSync queues the envelope behind earlier ones and waits until it is sent.
func (that *Session) sendSync(ctx context.Context, envelope replication.Envelope) error {
	done := make(chan error, 1)
	that.outgoing <- delivery{ctx: ctx, envelope: envelope, done: done}

	return <-done
}

func (that *Session) sendAsync(ctx context.Context, envelope replication.Envelope) {
	that.outgoing <- delivery{ctx: context.WithoutCancel(ctx), envelope: envelope}
}

func (that *Session) merge(envelope replication.Envelope) {
	merged, verdict := replication.Merge(that.self, that.current, envelope)
	if verdict != replication.Applied {
		that.logger.Debug("envelope discarded", "verdict", verdict.String(), "from", envelope.Meta.PlayerID)
		return
	}

	that.commit(merged, nil)
}

// tick settles an expired auction and expires stale trade offers.
func (that *Session) tick(ctx context.Context) {
	now := that.clock()
	working := that.current.Clone()

	expired := that.engine.ExpireAuction(working, now)
	swept := that.engine.SweepTrades(working, now)
	if !expired && swept == 0 {
		return
	}

	replication.Stamp(working, that.self)
	that.commit(working, working.DrainEvents())

	envelope, err := replication.NewEnvelope(that.roomID, working, that.self, "timer:sweep", nil, now)
	if err != nil {
		that.logger.Error("failed to build envelope", "error", err)
		return
	}

	that.sendAsync(ctx, envelope)
}

func (that *Session) commit(game *entity.Game, events []entity.Event) {
	that.current = game
	that.view.Store(game)

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, listener := range that.listeners {
		listener(game, events)
	}
}

func (that *Session) submit(ctx context.Context, playerID string, steps ...step) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := command{playerID: playerID, steps: steps, done: make(chan error, 1)}

	select {
	case <-that.running:
	case <-that.stopped:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case that.commands <- cmd:
	case <-that.stopped:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
