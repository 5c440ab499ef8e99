package engine

import (
	"fmt"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

// charge debits amount from the debtor in favour of creditor, or the bank when creditor is nil.
// A shortfall is covered by liquidation when the debtor's assets allow it, otherwise the debtor goes bankrupt.
// It reports whether the amount was paid in full.
func (that *Engine) charge(game *entity.Game, debtor *entity.Player, amount int, creditor *entity.Player, reason string) bool {
	if amount <= 0 || debtor.Bankrupt {
		return amount <= 0
	}

	if debtor.Cash >= amount && debtor.Debt == nil {
		that.pay(game, debtor, amount, creditor)
		return true
	}

	owed := amount
	if debtor.Debt != nil {
		owed += debtor.Debt.Amount
	}

	if that.Valuation(game, debtor) < owed {
		that.bankrupt(game, debtor, creditor, reason)
		return false
	}

	if that.rules.ManualLiquidation {
		that.recordDebt(game, debtor, amount, creditor, reason)
		return false
	}

	that.liquidate(game, debtor, amount)
	that.pay(game, debtor, amount, creditor)

	return true
}

// pay moves cash from debtor to creditor. Income lets the creditor clear a debt of their own.
func (that *Engine) pay(game *entity.Game, debtor *entity.Player, amount int, creditor *entity.Player) {
	debtor.Cash -= amount
	if creditor != nil {
		creditor.Cash += amount
		that.settleDebt(game, creditor)
	}
}

func (that *Engine) recordDebt(game *entity.Game, debtor *entity.Player, amount int, creditor *entity.Player, reason string) {
	creditorID := ""
	if creditor != nil {
		creditorID = creditor.ID
	}

	if debtor.Debt == nil {
		debtor.Debt = &entity.Debt{Amount: amount, CreditorID: creditorID, Reason: reason}
	} else {
		debtor.Debt.Amount += amount
	}

	game.Record(entity.Event{
		Kind:     entity.EventDebtPending,
		PlayerID: debtor.ID,
		Amount:   debtor.Debt.Amount,
		Message:  fmt.Sprintf("%s cannot pay %d (%s) and must liquidate assets", debtor.Name, amount, reason),
	})
}

// settleDebt pays a pending debt as soon as the player's cash covers it.
func (that *Engine) settleDebt(game *entity.Game, player *entity.Player) {
	debt := player.Debt
	if debt == nil || player.Cash < debt.Amount {
		return
	}

	var creditor *entity.Player
	if debt.CreditorID != "" {
		if found, err := game.Player(debt.CreditorID); err == nil && found.IsActive() {
			creditor = found
		}
	}

	player.Debt = nil

	game.Record(entity.Event{
		Kind:     entity.EventCashChanged,
		PlayerID: player.ID,
		Amount:   -debt.Amount,
		Message:  fmt.Sprintf("%s paid %d (%s)", player.Name, debt.Amount, debt.Reason),
	})

	that.pay(game, player, debt.Amount, creditor)
}

// Valuation is the cash a player could raise: cash, the mortgage value of every unmortgaged property
// and half the price of every building on it.
func (that *Engine) Valuation(game *entity.Game, player *entity.Player) int {
	total := player.Cash
	for _, id := range player.Properties {
		cell := &game.Cells[id]
		if cell.Mortgaged {
			continue
		}

		total += cell.Mortgage

		group := entity.Groups[cell.Group]
		houses := cell.Buildings
		if cell.HasHotel() {
			houses = entity.MaxHouses
			total += group.HotelPrice / 2
		}
		total += houses * (group.HousePrice / 2)
	}
	return total
}

// Liquidate raises at least amount in cash by selling buildings and mortgaging properties.
// A pending debt is raised and paid as part of it.
func (that *Engine) Liquidate(game *entity.Game, playerID string, amount int) error {
	player, err := that.actor(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "liquidate", err)
	}

	if err = guardDecision(game, playerID); err != nil {
		return that.reject(game, playerID, "liquidate", err)
	}

	target := amount
	if player.Debt != nil && player.Debt.Amount > target {
		target = player.Debt.Amount
	}

	if target <= 0 {
		return that.reject(game, playerID, "liquidate", apperror.ErrInvalidAmount)
	}

	that.liquidate(game, player, target)

	if player.Debt == nil {
		return nil
	}

	if player.Cash < player.Debt.Amount {
		var creditor *entity.Player
		if found, findErr := game.Player(player.Debt.CreditorID); findErr == nil && found.IsActive() {
			creditor = found
		}
		that.bankrupt(game, player, creditor, player.Debt.Reason)
		return nil
	}

	that.settleDebt(game, player)

	return nil
}

// liquidate sells buildings evenly, then mortgages properties in board order, until cash reaches target.
func (that *Engine) liquidate(game *entity.Game, player *entity.Player, target int) {
	before := player.Cash

	for player.Cash < target {
		cell := sellableBuilding(game, player)
		if cell == nil {
			break
		}
		that.sellBuilding(game, player, cell)
	}

	for _, id := range append([]int{}, player.Properties...) {
		if player.Cash >= target {
			break
		}

		cell := &game.Cells[id]
		if mortgageable(game, cell) == nil {
			that.mortgage(game, player, cell)
		}
	}

	if player.Cash > before {
		game.Record(entity.Event{
			Kind:     entity.EventLiquidated,
			PlayerID: player.ID,
			Amount:   player.Cash - before,
			Message:  fmt.Sprintf("%s raised %d by liquidating assets", player.Name, player.Cash-before),
		})
	}
}

// sellableBuilding picks a cell carrying the most buildings of its group, so selling keeps the group even.
func sellableBuilding(game *entity.Game, player *entity.Player) *entity.Cell {
	for _, id := range player.Properties {
		cell := &game.Cells[id]
		if cell.Buildings > 0 && cell.Buildings == maxBuildings(game.GroupCells(cell.Group)) {
			return cell
		}
	}
	return nil
}

// bankrupt hands the debtor's remaining cash to the creditor and returns every property to the bank.
func (that *Engine) bankrupt(game *entity.Game, debtor *entity.Player, creditor *entity.Player, reason string) {
	if creditor != nil && debtor.Cash > 0 {
		creditor.Cash += debtor.Cash
		debtor.Cash = 0
		that.settleDebt(game, creditor)
	}

	for _, id := range debtor.Properties {
		game.Cells[id].Reset()
	}

	debtor.Cash = 0
	debtor.Properties = []int{}
	debtor.Debt = nil
	debtor.InJail = false
	debtor.JailTurns = 0
	debtor.Bankrupt = true

	if game.Auction != nil {
		if game.Auction.BidderID == debtor.ID {
			game.Auction.BidderID = ""
			game.Auction.CurrentBid = game.Cells[game.Auction.CellID].Price
		}
		if game.Auction.IsParticipant(debtor.ID) {
			game.Auction.Withdraw(debtor.ID)
		}
	}

	for _, trade := range game.Trades {
		if trade.IsActive() && trade.HasMember(debtor.ID) {
			that.cancelTrade(game, trade, debtor.Name)
		}
	}

	game.Record(entity.Event{
		Kind:     entity.EventBankrupt,
		PlayerID: debtor.ID,
		Message:  fmt.Sprintf("%s is bankrupt (%s)", debtor.Name, reason),
	})

	if that.checkWinner(game) {
		return
	}

	if game.Auction != nil && len(game.Auction.Participants) == 0 {
		that.closeAuction(game, "")
	}

	if game.CurrentPlayer().ID == debtor.ID {
		that.advanceTurn(game)
	}
}

// checkWinner ends the game when a single player remains solvent.
func (that *Engine) checkWinner(game *entity.Game) bool {
	active := game.ActivePlayers()
	if len(game.Players) < 2 || len(active) != 1 {
		return false
	}

	winner := active[0]
	game.Winner = winner.ID
	game.Status = entity.StatusFinished
	game.Auction = nil
	game.Turn = entity.Turn{Phase: entity.PhaseGameOver}

	game.Record(entity.Event{
		Kind:     entity.EventGameWon,
		PlayerID: winner.ID,
		Message:  fmt.Sprintf("%s wins the game", winner.Name),
	})

	return true
}
