package engine

import (
	"fmt"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

// StartAuction opens the auction for an unowned cell. Every active player but the creator takes part,
// starting from the list price. A second auction while one runs is refused and logged.
func (that *Engine) StartAuction(game *entity.Game, creatorID string, cellID int, now time.Time) error {
	if _, err := that.actor(game, creatorID); err != nil {
		return that.reject(game, creatorID, "start auction", err)
	}

	if err := guardDecision(game, creatorID); err != nil {
		return that.reject(game, creatorID, "start auction", err)
	}

	if game.Auction != nil {
		return that.reject(game, creatorID, "start auction", apperror.ErrAuctionActive)
	}

	cell, err := purchasable(game, cellID)
	if err != nil {
		return that.reject(game, creatorID, "start auction", err)
	}

	participants := make([]string, 0, len(game.Players))
	for _, player := range game.ActivePlayers() {
		if player.ID != creatorID {
			participants = append(participants, player.ID)
		}
	}

	if len(participants) == 0 {
		that.unsold(game, cell)
		return nil
	}

	game.Auction = &entity.Auction{
		CellID:       cell.ID,
		CurrentBid:   cell.Price,
		CreatorID:    creatorID,
		Participants: participants,
		Declined:     []string{},
		StartedAt:    millis(now),
		EndsAt:       now.Add(that.rules.AuctionDuration).UnixMilli(),
	}

	game.Record(entity.Event{
		Kind:     entity.EventAuctionStarted,
		PlayerID: creatorID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   cell.Price,
		Message:  fmt.Sprintf("Auction for %s started at %d", cell.Name, cell.Price),
	})

	return nil
}

// Bid raises the auction by the fixed increment on behalf of the player.
func (that *Engine) Bid(game *entity.Game, playerID string, now time.Time) error {
	player, auction, err := that.bidder(game, playerID, now)
	if err != nil {
		return that.reject(game, playerID, "bid", err)
	}

	amount := auction.CurrentBid + that.rules.BidIncrement
	if player.Cash < amount {
		return that.reject(game, playerID, "bid", apperror.ErrInsufficientFunds)
	}

	auction.CurrentBid = amount
	auction.BidderID = player.ID

	if floor := now.Add(that.rules.AuctionMinRemaining).UnixMilli(); auction.EndsAt < floor {
		auction.EndsAt = floor
	}

	game.Record(entity.Event{
		Kind:     entity.EventBid,
		PlayerID: player.ID,
		CellID:   entity.CellRef(auction.CellID),
		Amount:   amount,
		Message:  fmt.Sprintf("%s bid %d for %s", player.Name, amount, game.Cells[auction.CellID].Name),
	})

	return nil
}

// DeclineBid withdraws the player from the auction. The last remaining participant wins it.
func (that *Engine) DeclineBid(game *entity.Game, playerID string, now time.Time) error {
	player, auction, err := that.bidder(game, playerID, now)
	if err != nil {
		return that.reject(game, playerID, "decline bid", err)
	}

	if auction.BidderID == player.ID {
		return that.reject(game, playerID, "decline bid", apperror.ErrHighBidderDecline)
	}

	auction.Withdraw(player.ID)
	game.Record(entity.Event{
		Kind:     entity.EventBidDeclined,
		PlayerID: player.ID,
		CellID:   entity.CellRef(auction.CellID),
		Message:  fmt.Sprintf("%s left the auction for %s", player.Name, game.Cells[auction.CellID].Name),
	})

	switch len(auction.Participants) {
	case 0:
		that.closeAuction(game, "")
	case 1:
		that.closeAuction(game, auction.Participants[0])
	}

	return nil
}

// EndAuction settles an auction whose time has run out.
func (that *Engine) EndAuction(game *entity.Game, playerID string, now time.Time) error {
	if _, err := that.actor(game, playerID); err != nil {
		return that.reject(game, playerID, "end auction", err)
	}

	if err := guardDecision(game, playerID); err != nil {
		return that.reject(game, playerID, "end auction", err)
	}

	auction := game.Auction
	if auction == nil {
		return that.reject(game, playerID, "end auction", apperror.ErrNoAuction)
	}

	if millis(now) < auction.EndsAt {
		return that.reject(game, playerID, "end auction", apperror.ErrAuctionNotFinished)
	}

	that.closeAuction(game, auction.BidderID)

	return nil
}

// ExpireAuction is the timer hook: it settles the live auction once expired and reports whether it did.
func (that *Engine) ExpireAuction(game *entity.Game, now time.Time) bool {
	if game.Auction == nil || millis(now) < game.Auction.EndsAt {
		return false
	}

	that.closeAuction(game, game.Auction.BidderID)

	return true
}

// bidder resolves a participant of a live auction. Once the deadline passed only settlement is allowed.
func (that *Engine) bidder(game *entity.Game, playerID string, now time.Time) (*entity.Player, *entity.Auction, error) {
	player, err := that.actor(game, playerID)
	if err != nil {
		return nil, nil, err
	}

	if err = guardDecision(game, playerID); err != nil {
		return nil, nil, err
	}

	auction := game.Auction
	if auction == nil {
		return nil, nil, apperror.ErrNoAuction
	}

	if millis(now) >= auction.EndsAt {
		return nil, nil, apperror.ErrAuctionExpired
	}

	if !auction.IsParticipant(player.ID) {
		return nil, nil, apperror.ErrNotAuctionBidder
	}

	return player, auction, nil
}

// closeAuction sells the cell to winnerID at the current bid, or leaves it unsold.
// The price is charged like any other debit, so a short winner liquidates or goes bankrupt.
func (that *Engine) closeAuction(game *entity.Game, winnerID string) {
	auction := game.Auction
	game.Auction = nil
	cell := &game.Cells[auction.CellID]

	if winnerID == "" {
		that.unsold(game, cell)
		return
	}

	winner, err := game.Player(winnerID)
	if err != nil || !winner.IsActive() {
		that.unsold(game, cell)
		return
	}

	that.charge(game, winner, auction.CurrentBid, nil, "auction for "+cell.Name)
	if !winner.IsActive() {
		that.unsold(game, cell)
		return
	}

	cell.OwnerID = winner.ID
	winner.AddProperty(cell.ID)

	game.Record(entity.Event{
		Kind:     entity.EventAuctionWon,
		PlayerID: winner.ID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   auction.CurrentBid,
		Message:  fmt.Sprintf("%s won %s for %d", winner.Name, cell.Name, auction.CurrentBid),
	})
}

func (that *Engine) unsold(game *entity.Game, cell *entity.Cell) {
	game.Record(entity.Event{
		Kind:    entity.EventAuctionUnsold,
		CellID:  entity.CellRef(cell.ID),
		Message: fmt.Sprintf("%s remains unsold", cell.Name),
	})
}
