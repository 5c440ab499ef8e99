package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

// declinedRailroad returns a three player game where p1 declined Reading Railroad.
func declinedRailroad(t *testing.T) (*Engine, *entity.Game) {
	t.Helper()

	engine := newTestEngine([2]int{2, 3})
	game := newTestGame(t, 3)
	rollAndMove(t, engine, game, "p1")
	require.NoError(t, engine.Decline(game, "p1", testNow))
	require.NotNil(t, game.Auction)

	return engine, game
}

func TestEngine_Auction(t *testing.T) {
	t.Run("The last participant wins without having declined", func(t *testing.T) {
		// Given: an auction for Reading Railroad at 200
		engine, game := declinedRailroad(t)

		// When: p2 raises to 220 and p3 declines
		require.NoError(t, engine.Bid(game, "p2", testNow))
		require.NoError(t, engine.DeclineBid(game, "p3", testNow))

		// Then: p2 wins automatically at 220
		assert.Nil(t, game.Auction)
		assert.Equal(t, "p2", game.Cells[5].OwnerID)
		assert.Equal(t, 1280, player(t, game, "p2").Cash)
		assert.Equal(t, []int{5}, player(t, game, "p2").Properties)
		assert.NoError(t, engine.EndTurn(game, "p1"))
	})

	t.Run("The creator cannot bid", func(t *testing.T) {
		engine, game := declinedRailroad(t)

		err := engine.Bid(game, "p1", testNow)

		require.ErrorIs(t, err, apperror.ErrNotAuctionBidder)
		assert.Equal(t, 200, game.Auction.CurrentBid)
	})

	t.Run("The highest bidder cannot withdraw", func(t *testing.T) {
		engine, game := declinedRailroad(t)
		require.NoError(t, engine.Bid(game, "p2", testNow))

		err := engine.DeclineBid(game, "p2", testNow)

		require.ErrorIs(t, err, apperror.ErrHighBidderDecline)
		assert.True(t, game.Auction.IsParticipant("p2"))
	})

	t.Run("A bid the bidder cannot cover is rejected", func(t *testing.T) {
		engine, game := declinedRailroad(t)
		player(t, game, "p2").Cash = 210

		err := engine.Bid(game, "p2", testNow)

		require.ErrorIs(t, err, apperror.ErrInsufficientFunds)
		assert.False(t, game.Auction.HasBidder())
	})

	t.Run("A late bid extends the deadline", func(t *testing.T) {
		// Given: an auction with five seconds left
		engine, game := declinedRailroad(t)
		late := testNow.Add(25 * time.Second)

		// When: p3 bids
		require.NoError(t, engine.Bid(game, "p3", late))

		// Then: at least ten seconds remain
		assert.Equal(t, late.Add(10*time.Second).UnixMilli(), game.Auction.EndsAt)
	})

	t.Run("An early bid keeps the deadline", func(t *testing.T) {
		engine, game := declinedRailroad(t)

		require.NoError(t, engine.Bid(game, "p3", testNow))

		assert.Equal(t, testNow.Add(30*time.Second).UnixMilli(), game.Auction.EndsAt)
	})

	t.Run("A second auction is refused while one runs", func(t *testing.T) {
		engine, game := declinedRailroad(t)

		err := engine.StartAuction(game, "p2", 1, testNow)

		require.ErrorIs(t, err, apperror.ErrAuctionActive)
		assert.Equal(t, 5, game.Auction.CellID)
	})

	t.Run("Expiry settles the auction with the highest bidder", func(t *testing.T) {
		// Given: p3 holds the highest bid
		engine, game := declinedRailroad(t)
		require.NoError(t, engine.Bid(game, "p3", testNow))

		// When: the timer fires before and after the deadline
		early := engine.ExpireAuction(game, testNow.Add(time.Second))
		expired := engine.ExpireAuction(game, testNow.Add(31*time.Second))

		// Then: only the second call settles it
		assert.False(t, early)
		assert.True(t, expired)
		assert.Equal(t, "p3", game.Cells[5].OwnerID)
		assert.Equal(t, 1280, player(t, game, "p3").Cash)
	})

	t.Run("Ending before the deadline is rejected", func(t *testing.T) {
		engine, game := declinedRailroad(t)

		err := engine.EndAuction(game, "p1", testNow)

		require.ErrorIs(t, err, apperror.ErrAuctionNotFinished)
		assert.NotNil(t, game.Auction)
	})

	t.Run("Expiry without bids leaves the cell unsold", func(t *testing.T) {
		engine, game := declinedRailroad(t)

		require.NoError(t, engine.EndAuction(game, "p1", testNow.Add(time.Minute)))

		assert.Nil(t, game.Auction)
		assert.False(t, game.Cells[5].IsOwned())
		assert.True(t, hasEvent(game.DrainEvents(), entity.EventAuctionUnsold))
	})

	t.Run("A remaining participant short of cash liquidates to pay", func(t *testing.T) {
		// Given: p3 holds 100 and an unmortgaged Boardwalk worth 200 to the bank
		engine, game := declinedRailroad(t)
		p3 := player(t, game, "p3")
		p3.Cash = 100
		own(t, game, "p3", 39)

		// When: p2 declines without any bid
		require.NoError(t, engine.DeclineBid(game, "p2", testNow))

		// Then: p3 mortgages Boardwalk and wins the railroad at 200
		assert.Nil(t, game.Auction)
		assert.Equal(t, "p3", game.Cells[5].OwnerID)
		assert.True(t, game.Cells[39].Mortgaged)
		assert.Equal(t, 100, p3.Cash)
		assert.False(t, p3.Bankrupt)
	})

	t.Run("A winner who cannot raise the price goes bankrupt", func(t *testing.T) {
		// Given: p3 holds 100 and nothing else
		engine, game := declinedRailroad(t)
		p3 := player(t, game, "p3")
		p3.Cash = 100

		// When: p2 declines without any bid
		require.NoError(t, engine.DeclineBid(game, "p2", testNow))

		// Then: p3 is out and the railroad stays with the bank
		assert.Nil(t, game.Auction)
		assert.True(t, p3.Bankrupt)
		assert.False(t, game.Cells[5].IsOwned())
		assert.True(t, hasEvent(game.DrainEvents(), entity.EventAuctionUnsold))
	})

	t.Run("A bid after the deadline is refused", func(t *testing.T) {
		// Given: an auction whose thirty seconds are over but not yet settled
		engine, game := declinedRailroad(t)
		endsAt := game.Auction.EndsAt
		late := testNow.Add(45 * time.Second)

		// When: p2 bids and p3 withdraws
		bidErr := engine.Bid(game, "p2", late)
		declineErr := engine.DeclineBid(game, "p3", late)

		// Then: both are refused and the deadline stays put
		require.ErrorIs(t, bidErr, apperror.ErrAuctionExpired)
		require.ErrorIs(t, declineErr, apperror.ErrAuctionExpired)
		assert.Equal(t, endsAt, game.Auction.EndsAt)
		assert.False(t, game.Auction.HasBidder())
		assert.Contains(t, game.Log[len(game.Log)-1], "cannot decline bid")
	})

	t.Run("Ending without an auction is logged", func(t *testing.T) {
		engine := newTestEngine()
		game := newTestGame(t, 2)

		err := engine.EndAuction(game, "p2", testNow)

		require.ErrorIs(t, err, apperror.ErrNoAuction)
		assert.Contains(t, game.Log[len(game.Log)-1], "cannot end auction")
	})

	t.Run("An open purchase decision blocks the auction", func(t *testing.T) {
		// Given: a running auction while p1 faces a purchase decision
		engine, game := declinedRailroad(t)
		game.Turn.Phase = entity.PhaseResolvingLanding
		game.Turn.Decision = &entity.Decision{PlayerID: "p1", CellID: 6}

		// When: the participants act on the auction
		bidErr := engine.Bid(game, "p2", testNow)
		declineErr := engine.DeclineBid(game, "p3", testNow)
		endErr := engine.EndAuction(game, "p2", testNow.Add(time.Minute))

		// Then: everything waits for the decision
		require.ErrorIs(t, bidErr, apperror.ErrAwaitingDecision)
		require.ErrorIs(t, declineErr, apperror.ErrAwaitingDecision)
		require.ErrorIs(t, endErr, apperror.ErrAwaitingDecision)
		assert.NotNil(t, game.Auction)
		assert.Equal(t, 200, game.Auction.CurrentBid)
	})
}
