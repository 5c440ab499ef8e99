package engine

import (
	"fmt"

	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

func (that *Engine) drawCard(game *entity.Game, player *entity.Player, kind entity.DeckKind, depth int) {
	deck := &game.Chance
	if kind == entity.DeckCommunityChest {
		deck = &game.CommunityChest
	}

	card := deck.Draw()
	game.Record(entity.Event{
		Kind:     entity.EventCardDrawn,
		PlayerID: player.ID,
		Message:  fmt.Sprintf("%s drew: %s", player.Name, card.Text),
	})

	that.applyCard(game, player, card, depth)
}

func (that *Engine) applyCard(game *entity.Game, player *entity.Player, card entity.Card, depth int) {
	switch card.Action {
	case entity.CardAdvanceTo:
		that.advance(game, player, stepsTo(player.Position, card.Target))
		that.land(game, player, depth+1, nil)
	case entity.CardNearestRailroad:
		that.advance(game, player, stepsTo(player.Position, nearest(player.Position, "railroad")))
		that.land(game, player, depth+1, func(game *entity.Game, cell *entity.Cell) int {
			return that.Rent(game, cell) * 2
		})
	case entity.CardNearestUtility:
		that.advance(game, player, stepsTo(player.Position, nearest(player.Position, "utility")))
		that.land(game, player, depth+1, func(game *entity.Game, _ *entity.Cell) int {
			return game.Turn.DiceTotal() * entity.UtilityMultiplier[1]
		})
	case entity.CardMoveBy:
		if card.Steps > 0 {
			that.advance(game, player, card.Steps)
		} else {
			player.Position = (player.Position + card.Steps + entity.BoardSize) % entity.BoardSize
		}
		that.land(game, player, depth+1, nil)
	case entity.CardCollect:
		that.credit(game, player, card.Amount, card.Text)
	case entity.CardPay:
		that.charge(game, player, card.Amount, nil, card.Text)
	case entity.CardCollectFromAll:
		for _, other := range game.ActivePlayers() {
			if !game.IsOngoing() {
				return
			}
			if other.ID != player.ID {
				that.charge(game, other, card.Amount, player, card.Text)
			}
		}
	case entity.CardPayAll:
		for _, other := range game.ActivePlayers() {
			if player.Bankrupt || !game.IsOngoing() {
				return
			}
			if other.ID != player.ID {
				that.charge(game, player, card.Amount, other, card.Text)
			}
		}
	case entity.CardRepairs:
		houses, hotels := buildingsOf(game, player)
		that.charge(game, player, houses*card.PerHouse+hotels*card.PerHotel, nil, card.Text)
	case entity.CardGoToJail:
		that.sendToJail(game, player, card.Text)
	case entity.CardJailFree:
		player.JailFreeCard++
	}
}

func stepsTo(from, to int) int {
	return (to - from + entity.BoardSize) % entity.BoardSize
}

// nearest returns the first cell of the group strictly ahead of position, wrapping around the board.
func nearest(position int, group string) int {
	cells := entity.Groups[group].Cells
	for _, id := range cells {
		if id > position {
			return id
		}
	}
	return cells[0]
}

func buildingsOf(game *entity.Game, player *entity.Player) (int, int) {
	houses, hotels := 0, 0
	for _, id := range player.Properties {
		cell := &game.Cells[id]
		if cell.HasHotel() {
			hotels++
		} else {
			houses += cell.Buildings
		}
	}
	return houses, hotels
}
