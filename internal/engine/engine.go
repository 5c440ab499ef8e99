package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/config"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

const maxCardChain = 3

// Dice produces two independent values in [1,6].
type Dice interface {
	Roll() (int, int)
}

type randomDice struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomDice(seed int64) Dice {
	return &randomDice{rnd: rand.New(rand.NewSource(seed))} //nolint: gosec // game dice
}

func (that *randomDice) Roll() (int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Intn(6) + 1, that.rnd.Intn(6) + 1
}

// Engine applies the game rules to a snapshot. It holds no game state of its own;
// every operation either mutates the given game or returns a rule violation and leaves it untouched.
type Engine struct {
	rules config.Rules
	dice  Dice
	newID func() string
}

func New(rules config.Rules, dice Dice, newID func() string) *Engine {
	return &Engine{
		rules: rules,
		dice:  dice,
		newID: newID,
	}
}

func (that *Engine) Rules() config.Rules {
	return that.rules
}

// reject writes the violation to the game log and returns it.
func (that *Engine) reject(game *entity.Game, playerID, action string, err error) error {
	game.Record(entity.Event{
		Kind:     entity.EventRejected,
		PlayerID: playerID,
		Message:  fmt.Sprintf("%s cannot %s: %v", that.name(game, playerID), action, err),
	})

	return fmt.Errorf("%s: %w", action, err)
}

func (that *Engine) name(game *entity.Game, playerID string) string {
	player, err := game.Player(playerID)
	if err != nil || player.Name == "" {
		return playerID
	}
	return player.Name
}

// actor resolves a player that may act at all: game ongoing, player known and not bankrupt.
func (that *Engine) actor(game *entity.Game, playerID string) (*entity.Player, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	player, err := game.Player(playerID)
	if err != nil {
		return nil, err
	}

	if player.Bankrupt {
		return nil, apperror.ErrPlayerBankrupt
	}

	return player, nil
}

// currentActor additionally requires the player to hold the turn.
func (that *Engine) currentActor(game *entity.Game, playerID string) (*entity.Player, error) {
	player, err := that.actor(game, playerID)
	if err != nil {
		return nil, err
	}

	if game.CurrentPlayer().ID != playerID {
		return nil, apperror.ErrNotYourTurn
	}

	return player, nil
}

// guardDecision blocks everyone but the deciding player while a purchase decision is open.
func guardDecision(game *entity.Game, playerID string) error {
	if game.Turn.Phase == entity.PhaseResolvingLanding && game.Turn.Decision != nil && game.Turn.Decision.PlayerID != playerID {
		return apperror.ErrAwaitingDecision
	}
	return nil
}

func (that *Engine) credit(game *entity.Game, player *entity.Player, amount int, reason string) {
	if amount <= 0 {
		return
	}

	player.Cash += amount
	game.Record(entity.Event{
		Kind:     entity.EventCashChanged,
		PlayerID: player.ID,
		Amount:   amount,
		Message:  fmt.Sprintf("%s received %d (%s)", player.Name, amount, reason),
	})

	that.settleDebt(game, player)
}

func millis(now time.Time) int64 {
	return now.UnixMilli()
}
