package engine

import (
	"fmt"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

// Proposal is the content of a trade offer as submitted by its author.
type Proposal struct {
	OfferedCells   []int `json:"offered_cells"`
	RequestedCells []int `json:"requested_cells"`
	OfferedCash    int   `json:"offered_cash"`
	RequestedCash  int   `json:"requested_cash"`
}

// OpenTrade starts a trade session between the creator and the target.
func (that *Engine) OpenTrade(game *entity.Game, creatorID, targetID string) (string, error) {
	creator, target, err := that.tradePair(game, creatorID, targetID)
	if err != nil {
		return "", that.reject(game, creatorID, "open trade", err)
	}

	trade := &entity.Trade{
		ID:           that.newID(),
		Participants: [2]string{creator.ID, target.ID},
		CreatorID:    creator.ID,
		Status:       entity.TradeActive,
	}
	game.Trades = append(game.Trades, trade)

	game.Record(entity.Event{
		Kind:     entity.EventTradeOpened,
		PlayerID: creator.ID,
		Message:  fmt.Sprintf("%s opened a trade with %s", creator.Name, target.Name),
	})

	return trade.ID, nil
}

func (that *Engine) tradePair(game *entity.Game, creatorID, targetID string) (*entity.Player, *entity.Player, error) {
	creator, err := that.actor(game, creatorID)
	if err != nil {
		return nil, nil, err
	}

	if err = guardDecision(game, creatorID); err != nil {
		return nil, nil, err
	}

	if creatorID == targetID {
		return nil, nil, apperror.ErrTradeWithSelf
	}

	target, err := that.actor(game, targetID)
	if err != nil {
		return nil, nil, err
	}

	return creator, target, nil
}

// ProposeTrade places an offer in the session, replacing any pending one.
func (that *Engine) ProposeTrade(game *entity.Game, tradeID, fromID string, proposal Proposal, now time.Time) error {
	trade, from, err := that.tradeMember(game, tradeID, fromID)
	if err != nil {
		return that.reject(game, fromID, "offer trade", err)
	}

	to, err := game.Player(trade.Counterpart(from.ID))
	if err != nil {
		return that.reject(game, fromID, "offer trade", err)
	}

	offer := &entity.Offer{
		FromID:         from.ID,
		ToID:           to.ID,
		OfferedCells:   nonNil(proposal.OfferedCells),
		RequestedCells: nonNil(proposal.RequestedCells),
		OfferedCash:    proposal.OfferedCash,
		RequestedCash:  proposal.RequestedCash,
		Status:         entity.OfferPending,
		CreatedAt:      millis(now),
		ExpiresAt:      now.Add(that.rules.TradeExpiry).UnixMilli(),
	}

	if _, _, err = validateOffer(game, offer); err != nil {
		return that.reject(game, fromID, "offer trade", err)
	}

	trade.Offer = offer

	game.Record(entity.Event{
		Kind:     entity.EventTradeOffered,
		PlayerID: from.ID,
		Message:  fmt.Sprintf("%s sent %s a trade offer", from.Name, to.Name),
	})

	return nil
}

// AcceptTrade executes the pending offer atomically after revalidating it against the current state.
func (that *Engine) AcceptTrade(game *entity.Game, tradeID, playerID string, now time.Time) error {
	trade, player, err := that.tradeMember(game, tradeID, playerID)
	if err != nil {
		return that.reject(game, playerID, "accept trade", err)
	}

	offer, err := pendingFor(trade, player.ID, now)
	if err != nil {
		return that.reject(game, playerID, "accept trade", err)
	}

	from, to, err := validateOffer(game, offer)
	if err != nil {
		return that.reject(game, playerID, "accept trade", err)
	}

	from.Cash += offer.RequestedCash - offer.OfferedCash
	to.Cash += offer.OfferedCash - offer.RequestedCash

	for _, id := range offer.OfferedCells {
		transferCell(game, id, from, to)
	}
	for _, id := range offer.RequestedCells {
		transferCell(game, id, to, from)
	}

	offer.Status = entity.OfferAccepted
	trade.Status = entity.TradeCompleted

	game.Record(entity.Event{
		Kind:     entity.EventTradeAccepted,
		PlayerID: to.ID,
		Message:  fmt.Sprintf("%s accepted the trade offer from %s", to.Name, from.Name),
	})

	that.settleDebt(game, from)
	that.settleDebt(game, to)

	return nil
}

// RejectTrade turns the pending offer down. The session stays open for a counter offer.
func (that *Engine) RejectTrade(game *entity.Game, tradeID, playerID string, now time.Time) error {
	trade, player, err := that.tradeMember(game, tradeID, playerID)
	if err != nil {
		return that.reject(game, playerID, "reject trade", err)
	}

	offer, err := pendingFor(trade, player.ID, now)
	if err != nil {
		return that.reject(game, playerID, "reject trade", err)
	}

	offer.Status = entity.OfferRejected

	game.Record(entity.Event{
		Kind:     entity.EventTradeRejected,
		PlayerID: player.ID,
		Message:  fmt.Sprintf("%s rejected the trade offer", player.Name),
	})

	return nil
}

// CancelTrade closes the session for good. Either participant may cancel.
func (that *Engine) CancelTrade(game *entity.Game, tradeID, playerID string) error {
	trade, player, err := that.tradeMember(game, tradeID, playerID)
	if err != nil {
		return that.reject(game, playerID, "cancel trade", err)
	}

	that.cancelTrade(game, trade, player.Name)

	return nil
}

func (that *Engine) cancelTrade(game *entity.Game, trade *entity.Trade, by string) {
	trade.Status = entity.TradeCancelled
	if trade.HasPendingOffer() {
		trade.Offer.Status = entity.OfferRejected
	}

	game.Record(entity.Event{
		Kind:    entity.EventTradeCancelled,
		Message: fmt.Sprintf("Trade cancelled by %s", by),
	})
}

// SweepTrades marks every pending offer past its expiry and returns how many it marked.
func (that *Engine) SweepTrades(game *entity.Game, now time.Time) int {
	expired := 0
	for _, trade := range game.Trades {
		if !trade.IsActive() || !trade.HasPendingOffer() || !trade.Offer.IsExpired(millis(now)) {
			continue
		}

		trade.Offer.Status = entity.OfferExpired
		expired++

		game.Record(entity.Event{
			Kind:     entity.EventTradeExpired,
			PlayerID: trade.Offer.FromID,
			Message:  fmt.Sprintf("Trade offer from %s expired", that.name(game, trade.Offer.FromID)),
		})
	}

	return expired
}

func (that *Engine) tradeMember(game *entity.Game, tradeID, playerID string) (*entity.Trade, *entity.Player, error) {
	player, err := that.actor(game, playerID)
	if err != nil {
		return nil, nil, err
	}

	if err = guardDecision(game, playerID); err != nil {
		return nil, nil, err
	}

	trade, err := game.Trade(tradeID)
	if err != nil {
		return nil, nil, err
	}

	if !trade.HasMember(player.ID) {
		return nil, nil, apperror.ErrNotTradeMember
	}

	if !trade.IsActive() {
		return nil, nil, apperror.ErrTradeClosed
	}

	return trade, player, nil
}

func pendingFor(trade *entity.Trade, playerID string, now time.Time) (*entity.Offer, error) {
	if !trade.HasPendingOffer() {
		return nil, apperror.ErrNoPendingOffer
	}

	offer := trade.Offer
	if offer.ToID != playerID {
		return nil, apperror.ErrNotOfferRecipient
	}

	if offer.IsExpired(millis(now)) {
		return nil, apperror.ErrTradeExpired
	}

	return offer, nil
}

// validateOffer checks the offer against the current state and returns both sides of it.
func validateOffer(game *entity.Game, offer *entity.Offer) (*entity.Player, *entity.Player, error) {
	from, err := game.Player(offer.FromID)
	if err != nil {
		return nil, nil, err
	}

	to, err := game.Player(offer.ToID)
	if err != nil {
		return nil, nil, err
	}

	if !from.IsActive() || !to.IsActive() {
		return nil, nil, apperror.ErrPlayerBankrupt
	}

	if offer.OfferedCash < 0 || offer.RequestedCash < 0 {
		return nil, nil, fmt.Errorf("%w: negative cash", apperror.ErrInvalidTrade)
	}

	if len(offer.OfferedCells) == 0 && len(offer.RequestedCells) == 0 && offer.OfferedCash == 0 && offer.RequestedCash == 0 {
		return nil, nil, fmt.Errorf("%w: empty offer", apperror.ErrInvalidTrade)
	}

	if from.Cash < offer.OfferedCash || to.Cash < offer.RequestedCash {
		return nil, nil, fmt.Errorf("%w: %w", apperror.ErrInvalidTrade, apperror.ErrInsufficientFunds)
	}

	if err = tradableCells(game, offer.OfferedCells, from.ID); err != nil {
		return nil, nil, err
	}

	if err = tradableCells(game, offer.RequestedCells, to.ID); err != nil {
		return nil, nil, err
	}

	return from, to, nil
}

func tradableCells(game *entity.Game, ids []int, ownerID string) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: cell %d listed twice", apperror.ErrInvalidTrade, id)
		}
		seen[id] = struct{}{}

		cell, err := game.Cell(id)
		if err != nil {
			return fmt.Errorf("%w: %w", apperror.ErrInvalidTrade, err)
		}

		switch {
		case cell.OwnerID != ownerID:
			return fmt.Errorf("%w: %w: %s", apperror.ErrInvalidTrade, apperror.ErrNotOwner, cell.Name)
		case cell.Mortgaged:
			return fmt.Errorf("%w: %w: %s", apperror.ErrInvalidTrade, apperror.ErrPropertyMortgaged, cell.Name)
		case cell.Buildings > 0:
			return fmt.Errorf("%w: %w: %s", apperror.ErrInvalidTrade, apperror.ErrGroupHasBuildings, cell.Name)
		}
	}
	return nil
}

func transferCell(game *entity.Game, cellID int, from, to *entity.Player) {
	game.Cells[cellID].OwnerID = to.ID
	from.RemoveProperty(cellID)
	to.AddProperty(cellID)
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return append([]int{}, ids...)
}
