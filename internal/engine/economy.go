package engine

import (
	"fmt"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

// Buy purchases the cell offered by the pending landing decision.
func (that *Engine) Buy(game *entity.Game, playerID string) error {
	player, cell, err := that.decision(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "buy", err)
	}

	if player.Cash < cell.Price {
		return that.reject(game, playerID, "buy", apperror.ErrInsufficientFunds)
	}

	player.Cash -= cell.Price
	cell.OwnerID = player.ID
	player.AddProperty(cell.ID)

	game.Turn.Decision = nil
	that.afterLanding(game)

	game.Record(entity.Event{
		Kind:     entity.EventBought,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   cell.Price,
		Message:  fmt.Sprintf("%s bought %s for %d", player.Name, cell.Name, cell.Price),
	})

	return nil
}

// Decline refuses the pending purchase and puts the cell up for auction.
func (that *Engine) Decline(game *entity.Game, playerID string, now time.Time) error {
	player, cell, err := that.decision(game, playerID)
	if err != nil {
		return that.reject(game, playerID, "decline", err)
	}

	game.Turn.Decision = nil
	that.afterLanding(game)

	game.Record(entity.Event{
		Kind:     entity.EventDeclined,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Message:  fmt.Sprintf("%s declined to buy %s", player.Name, cell.Name),
	})

	// A refused auction is already logged, the decline itself stands.
	_ = that.StartAuction(game, player.ID, cell.ID, now)

	return nil
}

func (that *Engine) decision(game *entity.Game, playerID string) (*entity.Player, *entity.Cell, error) {
	player, err := that.currentActor(game, playerID)
	if err != nil {
		return nil, nil, err
	}

	decision := game.Turn.Decision
	if game.Turn.Phase != entity.PhaseResolvingLanding || decision == nil {
		return nil, nil, apperror.ErrWrongPhase
	}

	if decision.PlayerID != player.ID {
		return nil, nil, apperror.ErrAwaitingDecision
	}

	cell, err := purchasable(game, decision.CellID)
	if err != nil {
		return nil, nil, err
	}

	return player, cell, nil
}

func purchasable(game *entity.Game, cellID int) (*entity.Cell, error) {
	cell, err := game.Cell(cellID)
	if err != nil {
		return nil, err
	}

	if !cell.IsOwnable() || cell.Price <= 0 {
		return nil, apperror.ErrNotPurchasable
	}

	if cell.IsOwned() {
		return nil, apperror.ErrAlreadyOwned
	}

	return cell, nil
}

// Build adds one house, or the hotel over four houses, to an estate of the current player.
func (that *Engine) Build(game *entity.Game, playerID string, cellID int) error {
	player, cell, err := that.buildable(game, playerID, cellID)
	if err != nil {
		return that.reject(game, playerID, "build", err)
	}

	group := entity.Groups[cell.Group]
	cost := group.HousePrice
	if cell.Buildings == entity.MaxHouses {
		cost = group.HotelPrice
	}

	if player.Cash < cost {
		return that.reject(game, playerID, "build", apperror.ErrInsufficientFunds)
	}

	player.Cash -= cost
	cell.Buildings++
	game.Turn.BuiltThisTurn = true

	what := "a house"
	if cell.HasHotel() {
		what = "a hotel"
	}
	game.Record(entity.Event{
		Kind:     entity.EventBuilt,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   cost,
		Message:  fmt.Sprintf("%s built %s on %s", player.Name, what, cell.Name),
	})

	return nil
}

func (that *Engine) buildable(game *entity.Game, playerID string, cellID int) (*entity.Player, *entity.Cell, error) {
	player, err := that.currentActor(game, playerID)
	if err != nil {
		return nil, nil, err
	}

	switch game.Turn.Phase {
	case entity.PhaseAwaitingRoll, entity.PhaseAwaitingEndTurn:
	default:
		return nil, nil, apperror.ErrWrongPhase
	}

	if game.Turn.BuiltThisTurn {
		return nil, nil, apperror.ErrAlreadyBuilt
	}

	cell, err := game.Cell(cellID)
	if err != nil {
		return nil, nil, err
	}

	if cell.Category != entity.CategoryEstate {
		return nil, nil, apperror.ErrNotBuildable
	}

	if cell.OwnerID != player.ID {
		return nil, nil, apperror.ErrNotOwner
	}

	if !HasMonopoly(game, player.ID, cell.Group) {
		return nil, nil, apperror.ErrNoMonopoly
	}

	if cell.HasHotel() {
		return nil, nil, apperror.ErrBuildingLimit
	}

	siblings := game.GroupCells(cell.Group)
	for _, sibling := range siblings {
		if sibling.Mortgaged {
			return nil, nil, apperror.ErrPropertyMortgaged
		}
	}

	if cell.Buildings == entity.MaxHouses {
		for _, sibling := range siblings {
			if sibling.Buildings < entity.MaxHouses {
				return nil, nil, apperror.ErrUnevenBuilding
			}
		}
	} else if cell.Buildings > minBuildings(siblings) {
		return nil, nil, apperror.ErrUnevenBuilding
	}

	return player, cell, nil
}

// SellBuilding sells one level of building back to the bank at half price.
func (that *Engine) SellBuilding(game *entity.Game, playerID string, cellID int) error {
	player, cell, err := that.ownedCell(game, playerID, cellID)
	if err != nil {
		return that.reject(game, playerID, "sell building", err)
	}

	if cell.Buildings == 0 {
		return that.reject(game, playerID, "sell building", apperror.ErrNoBuildings)
	}

	if cell.Buildings < maxBuildings(game.GroupCells(cell.Group)) {
		return that.reject(game, playerID, "sell building", apperror.ErrUnevenBuilding)
	}

	that.sellBuilding(game, player, cell)
	that.settleDebt(game, player)

	return nil
}

func (that *Engine) sellBuilding(game *entity.Game, player *entity.Player, cell *entity.Cell) {
	refund := buildingRefund(cell)
	wasHotel := cell.HasHotel()
	cell.Buildings--
	player.Cash += refund

	what := "a house"
	if wasHotel {
		what = "a hotel"
	}
	game.Record(entity.Event{
		Kind:     entity.EventBuildingSold,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   refund,
		Message:  fmt.Sprintf("%s sold %s on %s for %d", player.Name, what, cell.Name, refund),
	})
}

func buildingRefund(cell *entity.Cell) int {
	group := entity.Groups[cell.Group]
	if cell.HasHotel() {
		return group.HotelPrice / 2
	}
	return group.HousePrice / 2
}

// Mortgage pledges an undeveloped property to the bank for its mortgage value.
func (that *Engine) Mortgage(game *entity.Game, playerID string, cellID int) error {
	player, cell, err := that.ownedCell(game, playerID, cellID)
	if err != nil {
		return that.reject(game, playerID, "mortgage", err)
	}

	if err = mortgageable(game, cell); err != nil {
		return that.reject(game, playerID, "mortgage", err)
	}

	that.mortgage(game, player, cell)
	that.settleDebt(game, player)

	return nil
}

func mortgageable(game *entity.Game, cell *entity.Cell) error {
	if cell.Mortgaged {
		return apperror.ErrPropertyMortgaged
	}

	if cell.Category == entity.CategoryEstate && maxBuildings(game.GroupCells(cell.Group)) > 0 {
		return apperror.ErrGroupHasBuildings
	}

	return nil
}

func (that *Engine) mortgage(game *entity.Game, player *entity.Player, cell *entity.Cell) {
	cell.Mortgaged = true
	player.Cash += cell.Mortgage

	game.Record(entity.Event{
		Kind:     entity.EventMortgaged,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   cell.Mortgage,
		Message:  fmt.Sprintf("%s mortgaged %s for %d", player.Name, cell.Name, cell.Mortgage),
	})
}

// Unmortgage lifts a mortgage for its value plus interest.
func (that *Engine) Unmortgage(game *entity.Game, playerID string, cellID int) error {
	player, cell, err := that.ownedCell(game, playerID, cellID)
	if err != nil {
		return that.reject(game, playerID, "unmortgage", err)
	}

	if !cell.Mortgaged {
		return that.reject(game, playerID, "unmortgage", apperror.ErrNotMortgaged)
	}

	cost := that.UnmortgageCost(cell)
	if player.Cash < cost {
		return that.reject(game, playerID, "unmortgage", apperror.ErrInsufficientFunds)
	}

	player.Cash -= cost
	cell.Mortgaged = false

	game.Record(entity.Event{
		Kind:     entity.EventUnmortgaged,
		PlayerID: player.ID,
		CellID:   entity.CellRef(cell.ID),
		Amount:   cost,
		Message:  fmt.Sprintf("%s lifted the mortgage on %s for %d", player.Name, cell.Name, cost),
	})

	return nil
}

func (that *Engine) UnmortgageCost(cell *entity.Cell) int {
	return cell.Mortgage * (100 + that.rules.MortgageInterestPercent) / 100
}

// ownedCell resolves a cell owned by an active player outside of turn order.
func (that *Engine) ownedCell(game *entity.Game, playerID string, cellID int) (*entity.Player, *entity.Cell, error) {
	player, err := that.actor(game, playerID)
	if err != nil {
		return nil, nil, err
	}

	if err = guardDecision(game, playerID); err != nil {
		return nil, nil, err
	}

	cell, err := game.Cell(cellID)
	if err != nil {
		return nil, nil, err
	}

	if !cell.IsOwnable() {
		return nil, nil, apperror.ErrNotPurchasable
	}

	if cell.OwnerID != player.ID {
		return nil, nil, apperror.ErrNotOwner
	}

	return player, cell, nil
}

func minBuildings(cells []*entity.Cell) int {
	least := entity.Hotel
	for _, cell := range cells {
		if cell.Buildings < least {
			least = cell.Buildings
		}
	}
	return least
}

func maxBuildings(cells []*entity.Cell) int {
	most := 0
	for _, cell := range cells {
		if cell.Buildings > most {
			most = cell.Buildings
		}
	}
	return most
}
