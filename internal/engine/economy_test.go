package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

func TestEngine_Buy(t *testing.T) {
	t.Run("A second purchase of the same cell is rejected", func(t *testing.T) {
		// Given: p1 landed on Baltic Avenue for 60
		engine := newTestEngine([2]int{1, 2})
		game := newTestGame(t, 2)
		rollAndMove(t, engine, game, "p1")

		// When: p1 buys twice
		first := engine.Buy(game, "p1")
		second := engine.Buy(game, "p1")

		// Then: only the first purchase lands
		require.NoError(t, first)
		require.ErrorIs(t, second, apperror.ErrWrongPhase)
		assert.Equal(t, 1440, player(t, game, "p1").Cash)
		assert.Equal(t, "p1", game.Cells[3].OwnerID)
		assert.Equal(t, []int{3}, player(t, game, "p1").Properties)
		assert.Equal(t, entity.PhaseAwaitingEndTurn, game.Turn.Phase)
	})

	t.Run("Buying without enough cash is rejected", func(t *testing.T) {
		// Given: p1 has 50 and landed on Baltic Avenue
		engine := newTestEngine([2]int{1, 2})
		game := newTestGame(t, 2)
		player(t, game, "p1").Cash = 50
		rollAndMove(t, engine, game, "p1")

		// When: p1 buys
		err := engine.Buy(game, "p1")

		// Then: nothing changes and the decision stays open
		require.ErrorIs(t, err, apperror.ErrInsufficientFunds)
		assert.Equal(t, 50, player(t, game, "p1").Cash)
		assert.False(t, game.Cells[3].IsOwned())
		assert.Equal(t, entity.PhaseResolvingLanding, game.Turn.Phase)
	})

	t.Run("Other players cannot act while the decision is pending", func(t *testing.T) {
		// Given: p1 landed on Baltic Avenue and p2 owns Reading Railroad
		engine := newTestEngine([2]int{1, 2})
		game := newTestGame(t, 2)
		own(t, game, "p2", 5)
		rollAndMove(t, engine, game, "p1")

		// When: p2 mortgages in the meantime
		err := engine.Mortgage(game, "p2", 5)

		// Then: p2 has to wait
		require.ErrorIs(t, err, apperror.ErrAwaitingDecision)
		assert.False(t, game.Cells[5].Mortgaged)
	})

	t.Run("Declining opens an auction at list price", func(t *testing.T) {
		// Given: p1 landed on Baltic Avenue
		engine := newTestEngine([2]int{1, 2})
		game := newTestGame(t, 3)
		rollAndMove(t, engine, game, "p1")

		// When: p1 declines
		require.NoError(t, engine.Decline(game, "p1", testNow))

		// Then: p2 and p3 bid for it
		require.NotNil(t, game.Auction)
		assert.Equal(t, 3, game.Auction.CellID)
		assert.Equal(t, 60, game.Auction.CurrentBid)
		assert.Equal(t, []string{"p2", "p3"}, game.Auction.Participants)
		assert.Equal(t, entity.PhaseAwaitingEndTurn, game.Turn.Phase)
		assert.ErrorIs(t, engine.EndTurn(game, "p1"), apperror.ErrAuctionActive)
	})
}

func TestEngine_Rent(t *testing.T) {
	t.Run("A full group doubles the base rent of an undeveloped estate", func(t *testing.T) {
		// Given: p1 owns all of orange and p2 stands three cells before St. James Place
		engine := newTestEngine([2]int{1, 2})
		game := newTestGame(t, 2)
		own(t, game, "p1", 16, 18, 19)
		game.Cells[18].Buildings = 1
		game.Cells[19].Buildings = 1
		game.Current = 1
		player(t, game, "p2").Position = 13

		// When: p2 lands on St. James Place
		rollAndMove(t, engine, game, "p2")

		// Then: p2 pays 2 x 14
		assert.Equal(t, 1472, player(t, game, "p2").Cash)
		assert.Equal(t, 1528, player(t, game, "p1").Cash)
	})

	t.Run("Rent follows the building level", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 16, 18, 19)
		game.Cells[16].Buildings = 3

		assert.Equal(t, 550, engine.Rent(game, &game.Cells[16]))
	})

	t.Run("Railroad rent grows with the number owned", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 5, 15, 25)

		assert.Equal(t, 100, engine.Rent(game, &game.Cells[5]))
	})

	t.Run("Utility rent multiplies the dice", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		game.Turn.Dice = [2]int{3, 4}
		own(t, game, "p1", 12)

		single := engine.Rent(game, &game.Cells[12])
		own(t, game, "p1", 28)
		both := engine.Rent(game, &game.Cells[12])

		assert.Equal(t, 28, single)
		assert.Equal(t, 70, both)
	})

	t.Run("Mortgaged cells collect nothing", func(t *testing.T) {
		// Given: p1 owns a mortgaged Baltic Avenue
		engine := newTestEngine([2]int{1, 2})
		game := newTestGame(t, 2)
		own(t, game, "p1", 3)
		game.Cells[3].Mortgaged = true
		game.Current = 1

		// When: p2 lands on it
		rollAndMove(t, engine, game, "p2")

		// Then: no cash moves
		assert.Equal(t, 1500, player(t, game, "p2").Cash)
		assert.Equal(t, 1500, player(t, game, "p1").Cash)
	})
}

func TestEngine_Build(t *testing.T) {
	t.Run("Building requires the whole group", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 1)

		err := engine.Build(game, "p1", 1)

		require.ErrorIs(t, err, apperror.ErrNoMonopoly)
	})

	t.Run("Houses go up evenly across the group", func(t *testing.T) {
		// Given: p1 owns brown with one house on Mediterranean Avenue
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 1, 3)
		game.Cells[1].Buildings = 1

		// When: p1 tries a second house there, then builds on Baltic Avenue
		uneven := engine.Build(game, "p1", 1)
		even := engine.Build(game, "p1", 3)

		// Then: only the even build passes
		require.ErrorIs(t, uneven, apperror.ErrUnevenBuilding)
		require.NoError(t, even)
		assert.Equal(t, 1, game.Cells[3].Buildings)
		assert.Equal(t, 1450, player(t, game, "p1").Cash)
	})

	t.Run("Only one build per turn", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 1, 3)

		require.NoError(t, engine.Build(game, "p1", 1))
		err := engine.Build(game, "p1", 3)

		require.ErrorIs(t, err, apperror.ErrAlreadyBuilt)
	})

	t.Run("A hotel needs four houses on every sibling", func(t *testing.T) {
		// Given: brown at four houses and three houses
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 1, 3)
		game.Cells[1].Buildings = 4
		game.Cells[3].Buildings = 3

		// When: p1 builds the hotel on Mediterranean Avenue
		err := engine.Build(game, "p1", 1)

		// Then: Baltic Avenue has to catch up first
		require.ErrorIs(t, err, apperror.ErrUnevenBuilding)

		game.Cells[3].Buildings = 4
		require.NoError(t, engine.Build(game, "p1", 1))
		assert.True(t, game.Cells[1].HasHotel())
		assert.ErrorIs(t, engine.Build(game, "p1", 1), apperror.ErrAlreadyBuilt)
	})

	t.Run("A mortgaged sibling blocks construction", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 1, 3)
		game.Cells[3].Mortgaged = true

		err := engine.Build(game, "p1", 1)

		require.ErrorIs(t, err, apperror.ErrPropertyMortgaged)
	})

	t.Run("Railroads are not buildable", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 5, 15, 25, 35)

		err := engine.Build(game, "p1", 5)

		require.ErrorIs(t, err, apperror.ErrNotBuildable)
	})
}

func TestEngine_SellBuilding(t *testing.T) {
	t.Run("Selling keeps the group even and refunds half", func(t *testing.T) {
		// Given: brown at two and one houses
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 1, 3)
		game.Cells[1].Buildings = 2
		game.Cells[3].Buildings = 1

		// When: p1 sells from the lower cell, then from the higher one
		uneven := engine.SellBuilding(game, "p1", 3)
		even := engine.SellBuilding(game, "p1", 1)

		// Then: only the sale from the higher cell passes
		require.ErrorIs(t, uneven, apperror.ErrUnevenBuilding)
		require.NoError(t, even)
		assert.Equal(t, 1, game.Cells[1].Buildings)
		assert.Equal(t, 1525, player(t, game, "p1").Cash)
	})

	t.Run("Selling is allowed outside the own turn", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p2", 1, 3)
		game.Cells[1].Buildings = 1

		require.NoError(t, engine.SellBuilding(game, "p2", 1))
		assert.Zero(t, game.Cells[1].Buildings)
	})
}

func TestEngine_Mortgage(t *testing.T) {
	t.Run("Mortgage and lift with interest", func(t *testing.T) {
		// Given: p1 owns Reading Railroad
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 5)

		// When: p1 mortgages it and lifts the mortgage again
		require.NoError(t, engine.Mortgage(game, "p1", 5))
		mortgagedCash := player(t, game, "p1").Cash
		require.NoError(t, engine.Unmortgage(game, "p1", 5))

		// Then: p1 got 100 and paid back 110
		assert.Equal(t, 1600, mortgagedCash)
		assert.Equal(t, 1490, player(t, game, "p1").Cash)
		assert.False(t, game.Cells[5].Mortgaged)
	})

	t.Run("A group with buildings cannot be mortgaged", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 1, 3)
		game.Cells[3].Buildings = 1

		err := engine.Mortgage(game, "p1", 1)

		require.ErrorIs(t, err, apperror.ErrGroupHasBuildings)
		assert.Equal(t, 1500, player(t, game, "p1").Cash)
	})

	t.Run("Mortgaging twice is rejected", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 5)

		require.NoError(t, engine.Mortgage(game, "p1", 5))
		err := engine.Mortgage(game, "p1", 5)

		require.ErrorIs(t, err, apperror.ErrPropertyMortgaged)
	})

	t.Run("Only the owner may mortgage", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)
		own(t, game, "p1", 5)

		err := engine.Mortgage(game, "p2", 5)

		require.ErrorIs(t, err, apperror.ErrNotOwner)
	})
}
