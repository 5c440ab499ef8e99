package engine

import (
	"fmt"

	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

// rentFunc overrides the standard rent of the cell a card sent the player to.
type rentFunc func(game *entity.Game, cell *entity.Cell) int

// land resolves the cell under the player's token.
func (that *Engine) land(game *entity.Game, player *entity.Player, depth int, rent rentFunc) {
	cell := &game.Cells[player.Position]
	game.Record(entity.Event{
		Kind:     entity.EventMoved,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Message:  fmt.Sprintf("%s landed on %s", player.Name, cell.Name),
	})

	switch cell.Category {
	case entity.CategoryEstate, entity.CategoryRailroad, entity.CategoryUtility:
		that.landOnProperty(game, player, cell, rent)
	case entity.CategoryTax:
		game.Record(entity.Event{
			Kind:     entity.EventTaxPaid,
			PlayerID: player.ID,
			CellID:   entity.CellRef(cell.ID),
			Amount:   cell.Tax,
			Message:  fmt.Sprintf("%s owes %d for %s", player.Name, cell.Tax, cell.Name),
		})
		that.charge(game, player, cell.Tax, nil, cell.Name)
	case entity.CategoryCard:
		if depth >= maxCardChain {
			return
		}
		that.drawCard(game, player, cell.Deck, depth)
	case entity.CategoryGoToJail:
		that.sendToJail(game, player, cell.Name)
	}
}

func (that *Engine) landOnProperty(game *entity.Game, player *entity.Player, cell *entity.Cell, rent rentFunc) {
	if !cell.IsOwned() {
		if cell.Price <= 0 {
			return
		}

		game.Turn.Decision = &entity.Decision{PlayerID: player.ID, CellID: cell.ID}
		game.Turn.Phase = entity.PhaseResolvingLanding
		game.Record(entity.Event{
			Kind:     entity.EventPurchaseOffer,
			PlayerID: player.ID,
			CellID:   entity.CellRef(cell.ID),
			Amount:   cell.Price,
			Message:  fmt.Sprintf("%s may buy %s for %d", player.Name, cell.Name, cell.Price),
		})
		return
	}

	if cell.OwnerID == player.ID || cell.Mortgaged {
		return
	}

	owner, err := game.Player(cell.OwnerID)
	if err != nil || !owner.IsActive() {
		return
	}

	if rent == nil {
		rent = that.Rent
	}
	amount := rent(game, cell)

	game.Record(entity.Event{
		Kind:     entity.EventRentPaid,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   amount,
		Message:  fmt.Sprintf("%s owes %s rent of %d for %s", player.Name, owner.Name, amount, cell.Name),
	})
	that.charge(game, player, amount, owner, "rent for "+cell.Name)
}

// Rent is the standard rent due on an owned, unmortgaged cell for the current dice.
func (that *Engine) Rent(game *entity.Game, cell *entity.Cell) int {
	if !cell.IsOwned() || cell.Mortgaged {
		return 0
	}

	switch cell.Category {
	case entity.CategoryEstate:
		if cell.Buildings > 0 {
			return cell.Rent[cell.Buildings]
		}
		if HasMonopoly(game, cell.OwnerID, cell.Group) {
			return cell.Rent[0] * 2
		}
		return cell.Rent[0]
	case entity.CategoryRailroad:
		owned := ownedInGroup(game, cell.OwnerID, cell.Group)
		return entity.RailroadRent[owned-1]
	case entity.CategoryUtility:
		owned := ownedInGroup(game, cell.OwnerID, cell.Group)
		return game.Turn.DiceTotal() * entity.UtilityMultiplier[owned-1]
	default:
		return 0
	}
}

// HasMonopoly reports whether ownerID holds every cell of the group.
func HasMonopoly(game *entity.Game, ownerID, group string) bool {
	if ownerID == "" || group == "" {
		return false
	}
	return ownedInGroup(game, ownerID, group) == len(entity.Groups[group].Cells)
}

func ownedInGroup(game *entity.Game, ownerID, group string) int {
	owned := 0
	for _, cell := range game.GroupCells(group) {
		if cell.OwnerID == ownerID {
			owned++
		}
	}
	return owned
}
