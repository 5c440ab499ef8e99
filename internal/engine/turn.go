package engine

import (
	"fmt"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

const maxDoubles = 3

// Roll throws the dice for the current player. The move itself is applied by Move,
// so the rolled snapshot can be published before the token advances.
func (that *Engine) Roll(game *entity.Game, playerID string) error {
	player, err := that.currentActor(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "roll", err)
	}

	switch {
	case player.Debt != nil:
		return that.reject(game, playerID, "roll", apperror.ErrNeedsLiquidation)
	case game.Turn.Phase != entity.PhaseAwaitingRoll && game.Turn.DiceConsumed:
		return that.reject(game, playerID, "roll", apperror.ErrAlreadyRolled)
	case game.Turn.Phase != entity.PhaseAwaitingRoll:
		return that.reject(game, playerID, "roll", apperror.ErrWrongPhase)
	}

	first, second := that.dice.Roll()
	doubles := first == second
	game.Turn.Dice = [2]int{first, second}
	game.Record(entity.Event{
		Kind:     entity.EventRolled,
		PlayerID: player.ID,
		Amount:   first + second,
		Message:  fmt.Sprintf("%s rolled %d and %d", player.Name, first, second),
	})

	if player.InJail {
		that.rollInJail(game, player, doubles)
		return nil
	}

	if !doubles {
		game.Turn.DiceConsumed = true
		game.Turn.Phase = entity.PhaseMoving
		return nil
	}

	game.Turn.Doubles++
	if game.Turn.Doubles >= maxDoubles {
		that.sendToJail(game, player, "three doubles in a row")
		return nil
	}

	game.Turn.DiceConsumed = false
	game.Turn.Phase = entity.PhaseMoving

	return nil
}

func (that *Engine) rollInJail(game *entity.Game, player *entity.Player, doubles bool) {
	player.JailTurns++
	game.Turn.DiceConsumed = true

	switch {
	case doubles:
		that.release(game, player, "rolled doubles")
		game.Turn.Phase = entity.PhaseMoving
	case player.JailTurns >= that.rules.MaxJailTurns:
		that.charge(game, player, that.rules.JailFine, nil, "jail fine")
		if player.Bankrupt {
			return
		}
		that.release(game, player, "paid the fine")
		game.Turn.Phase = entity.PhaseMoving
	default:
		game.Turn.Phase = entity.PhaseAwaitingEndTurn
		game.Record(entity.Event{
			Kind:     entity.EventStayedInJail,
			PlayerID: player.ID,
			Message:  fmt.Sprintf("%s stays in jail (%d/%d)", player.Name, player.JailTurns, that.rules.MaxJailTurns),
		})
	}
}

// Move advances the current player's token by the rolled dice and resolves the landing.
func (that *Engine) Move(game *entity.Game, playerID string) error {
	player, err := that.currentActor(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "move", err)
	}

	if game.Turn.Phase != entity.PhaseMoving {
		return that.reject(game, playerID, "move", apperror.ErrWrongPhase)
	}

	that.advance(game, player, game.Turn.DiceTotal())
	that.land(game, player, 0, nil)
	that.settleLanding(game)

	return nil
}

// EndTurn hands the turn to the next active player.
func (that *Engine) EndTurn(game *entity.Game, playerID string) error {
	player, err := that.currentActor(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "end turn", err)
	}

	switch {
	case game.Auction != nil:
		return that.reject(game, playerID, "end turn", apperror.ErrAuctionActive)
	case player.Debt != nil:
		return that.reject(game, playerID, "end turn", apperror.ErrNeedsLiquidation)
	case game.Turn.Phase == entity.PhaseResolvingLanding:
		return that.reject(game, playerID, "end turn", apperror.ErrAwaitingDecision)
	case game.Turn.Phase == entity.PhaseAwaitingRoll:
		return that.reject(game, playerID, "end turn", apperror.ErrDiceNotConsumed)
	case game.Turn.Phase != entity.PhaseAwaitingEndTurn:
		return that.reject(game, playerID, "end turn", apperror.ErrWrongPhase)
	}

	that.advanceTurn(game)

	return nil
}

// PayJailFine buys the current player out of jail before rolling.
func (that *Engine) PayJailFine(game *entity.Game, playerID string) error {
	player, err := that.jailedBeforeRoll(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "pay jail fine", err)
	}

	if player.Cash < that.rules.JailFine {
		return that.reject(game, playerID, "pay jail fine", apperror.ErrInsufficientFunds)
	}

	player.Cash -= that.rules.JailFine
	that.release(game, player, fmt.Sprintf("paid %d", that.rules.JailFine))

	return nil
}

// UseJailCard spends a get out of jail free card.
func (that *Engine) UseJailCard(game *entity.Game, playerID string) error {
	player, err := that.jailedBeforeRoll(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "use jail card", err)
	}

	if player.JailFreeCard == 0 {
		return that.reject(game, playerID, "use jail card", apperror.ErrNoJailFreeCard)
	}

	player.JailFreeCard--
	that.release(game, player, "used a get out of jail free card")

	return nil
}

func (that *Engine) jailedBeforeRoll(game *entity.Game, playerID string) (*entity.Player, error) {
	player, err := that.currentActor(game, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InJail {
		return nil, apperror.ErrNotInJail
	}

	if game.Turn.Phase != entity.PhaseAwaitingRoll {
		return nil, apperror.ErrWrongPhase
	}

	return player, nil
}

// advance moves the token forward, paying the start bonus when it passes or lands on start.
func (that *Engine) advance(game *entity.Game, player *entity.Player, steps int) {
	from := player.Position
	target := (from + steps) % entity.BoardSize
	player.Position = target

	if from+steps >= entity.BoardSize {
		that.credit(game, player, that.rules.PassStartBonus, "passed start")
		game.Record(entity.Event{
			Kind:     entity.EventPassedStart,
			PlayerID: player.ID,
			Amount:   that.rules.PassStartBonus,
			Message:  fmt.Sprintf("%s passed start", player.Name),
		})

		if target == entity.StartCell && !that.rules.SingleStartBonus {
			that.credit(game, player, that.rules.PassStartBonus, "landed on start")
		}
	}
}

// settleLanding closes the moving phase unless the landing opened a decision,
// ended the game or handed the turn over.
func (that *Engine) settleLanding(game *entity.Game) {
	if game.Turn.Phase != entity.PhaseMoving {
		return
	}

	that.afterLanding(game)
}

func (that *Engine) afterLanding(game *entity.Game) {
	if game.Turn.DiceConsumed {
		game.Turn.Phase = entity.PhaseAwaitingEndTurn
		return
	}

	game.Turn.Phase = entity.PhaseAwaitingRoll
}

func (that *Engine) sendToJail(game *entity.Game, player *entity.Player, reason string) {
	player.Position = entity.JailCell
	player.InJail = true
	player.JailTurns = 0

	if game.CurrentPlayer().ID == player.ID {
		game.Turn.Doubles = 0
		game.Turn.DiceConsumed = true
		game.Turn.Decision = nil
		game.Turn.Phase = entity.PhaseAwaitingEndTurn
	}

	game.Record(entity.Event{
		Kind:     entity.EventJailed,
		PlayerID: player.ID,
		CellID:   entity.CellRef(entity.JailCell),
		Message:  fmt.Sprintf("%s goes to jail (%s)", player.Name, reason),
	})
}

func (that *Engine) release(game *entity.Game, player *entity.Player, reason string) {
	player.InJail = false
	player.JailTurns = 0

	game.Record(entity.Event{
		Kind:     entity.EventReleased,
		PlayerID: player.ID,
		Message:  fmt.Sprintf("%s leaves jail (%s)", player.Name, reason),
	})
}

// advanceTurn passes the turn to the next non-bankrupt player in seat order.
func (that *Engine) advanceTurn(game *entity.Game) {
	previous := game.CurrentPlayer()
	game.Record(entity.Event{
		Kind:     entity.EventTurnEnded,
		PlayerID: previous.ID,
		Message:  fmt.Sprintf("%s ended the turn", previous.Name),
	})

	for i := 1; i <= len(game.Players); i++ {
		next := (game.Current + i) % len(game.Players)
		if game.Players[next].IsActive() {
			game.Current = next
			break
		}
	}

	game.Turn = entity.Turn{Phase: entity.PhaseAwaitingRoll}
}
