package usecase

import (
	"context"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/engine"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

type cellPayload struct {
	CellID int `json:"cell_id"`
}

type tradePayload struct {
	TradeID string `json:"trade_id"`
}

func moving(game *entity.Game) bool {
	return game.Turn.Phase == entity.PhaseMoving
}

// Roll throws the dice, publishes the roll and then moves the token.
func (that *Session) Roll(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID,
		step{action: "game:roll", apply: func(game *entity.Game, _ time.Time) error {
			return that.engine.Roll(game, playerID)
		}},
		step{action: "game:move", when: moving, apply: func(game *entity.Game, _ time.Time) error {
			return that.engine.Move(game, playerID)
		}},
	)
}

func (that *Session) Buy(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "game:buy", apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.Buy(game, playerID)
	}})
}

func (that *Session) Decline(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "game:decline", apply: func(game *entity.Game, now time.Time) error {
		return that.engine.Decline(game, playerID, now)
	}})
}

func (that *Session) Build(ctx context.Context, playerID string, cellID int) error {
	return that.submit(ctx, playerID, step{action: "game:build", payload: cellPayload{cellID}, apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.Build(game, playerID, cellID)
	}})
}

func (that *Session) SellBuilding(ctx context.Context, playerID string, cellID int) error {
	return that.submit(ctx, playerID, step{action: "game:sell", payload: cellPayload{cellID}, apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.SellBuilding(game, playerID, cellID)
	}})
}

func (that *Session) Mortgage(ctx context.Context, playerID string, cellID int) error {
	return that.submit(ctx, playerID, step{action: "game:mortgage", payload: cellPayload{cellID}, apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.Mortgage(game, playerID, cellID)
	}})
}

func (that *Session) Unmortgage(ctx context.Context, playerID string, cellID int) error {
	return that.submit(ctx, playerID, step{action: "game:unmortgage", payload: cellPayload{cellID}, apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.Unmortgage(game, playerID, cellID)
	}})
}

func (that *Session) Liquidate(ctx context.Context, playerID string, amount int) error {
	payload := struct {
		Amount int `json:"amount"`
	}{amount}

	return that.submit(ctx, playerID, step{action: "game:liquidate", payload: payload, apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.Liquidate(game, playerID, amount)
	}})
}

func (that *Session) EndTurn(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "game:end-turn", apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.EndTurn(game, playerID)
	}})
}

func (that *Session) PayJailFine(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "jail:pay", apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.PayJailFine(game, playerID)
	}})
}

func (that *Session) UseJailCard(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "jail:card", apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.UseJailCard(game, playerID)
	}})
}

func (that *Session) StartAuction(ctx context.Context, playerID string, cellID int) error {
	return that.submit(ctx, playerID, step{action: "auction:start", payload: cellPayload{cellID}, apply: func(game *entity.Game, now time.Time) error {
		return that.engine.StartAuction(game, playerID, cellID, now)
	}})
}

func (that *Session) Bid(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "auction:bid", apply: func(game *entity.Game, now time.Time) error {
		return that.engine.Bid(game, playerID, now)
	}})
}

func (that *Session) DeclineBid(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "auction:decline", apply: func(game *entity.Game, now time.Time) error {
		return that.engine.DeclineBid(game, playerID, now)
	}})
}

func (that *Session) EndAuction(ctx context.Context, playerID string) error {
	return that.submit(ctx, playerID, step{action: "auction:end", apply: func(game *entity.Game, now time.Time) error {
		return that.engine.EndAuction(game, playerID, now)
	}})
}

// OpenTrade returns the id of the new trade session.
func (that *Session) OpenTrade(ctx context.Context, playerID, targetID string) (string, error) {
	var tradeID string

	payload := struct {
		TargetID string `json:"target_id"`
	}{targetID}

	err := that.submit(ctx, playerID, step{action: "trade:open", payload: payload, apply: func(game *entity.Game, _ time.Time) error {
		id, err := that.engine.OpenTrade(game, playerID, targetID)
		tradeID = id
		return err
	}})

	return tradeID, err
}

func (that *Session) ProposeTrade(ctx context.Context, playerID, tradeID string, proposal engine.Proposal) error {
	payload := struct {
		TradeID string `json:"trade_id"`
		engine.Proposal
	}{tradeID, proposal}

	return that.submit(ctx, playerID, step{action: "trade:offer", payload: payload, apply: func(game *entity.Game, now time.Time) error {
		return that.engine.ProposeTrade(game, tradeID, playerID, proposal, now)
	}})
}

func (that *Session) AcceptTrade(ctx context.Context, playerID, tradeID string) error {
	return that.submit(ctx, playerID, step{action: "trade:accept", payload: tradePayload{tradeID}, apply: func(game *entity.Game, now time.Time) error {
		return that.engine.AcceptTrade(game, tradeID, playerID, now)
	}})
}

func (that *Session) RejectTrade(ctx context.Context, playerID, tradeID string) error {
	return that.submit(ctx, playerID, step{action: "trade:reject", payload: tradePayload{tradeID}, apply: func(game *entity.Game, now time.Time) error {
		return that.engine.RejectTrade(game, tradeID, playerID, now)
	}})
}

func (that *Session) CancelTrade(ctx context.Context, playerID, tradeID string) error {
	return that.submit(ctx, playerID, step{action: "trade:cancel", payload: tradePayload{tradeID}, apply: func(game *entity.Game, _ time.Time) error {
		return that.engine.CancelTrade(game, tradeID, playerID)
	}})
}
