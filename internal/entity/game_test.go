package entity

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
)

func seats(n int) []RosterEntry {
	roster := make([]RosterEntry, 0, n)
	for i := 1; i <= n; i++ {
		roster = append(roster, RosterEntry{Name: "Player " + strconv.Itoa(i), ExternalID: "p" + strconv.Itoa(i)})
	}
	return roster
}

func newGame(t *testing.T, n int) *Game {
	t.Helper()

	game, err := NewGame("room-1", seats(n), 1500, 5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	return game
}

func TestNewGame(t *testing.T) {
	t.Run("seats the roster with the starting cash", func(t *testing.T) {
		// Given: a roster of three seats, one without an external id
		roster := seats(3)
		roster[2].ExternalID = ""

		// When: creating the game
		game, err := NewGame("room-1", roster, 1500, 100, rand.New(rand.NewSource(1)))

		// Then: players start on the start cell with 1500 and the first seat holds the turn
		require.NoError(t, err)
		require.Len(t, game.Players, 3)
		assert.Equal(t, "p1", game.CurrentPlayer().ID)
		assert.Equal(t, "player-3", game.Players[2].ID)
		for _, player := range game.Players {
			assert.Equal(t, 1500, player.Cash)
			assert.Equal(t, StartCell, player.Position)
			assert.Empty(t, player.Properties)
		}

		assert.Equal(t, StatusOngoing, game.Status)
		assert.Equal(t, PhaseAwaitingRoll, game.Turn.Phase)
		assert.Len(t, game.Cells, BoardSize)
		assert.Len(t, game.Chance.Order, DeckSize)
		assert.Len(t, game.CommunityChest.Order, DeckSize)
		assert.Equal(t, uint64(0), game.Revision)
	})

	t.Run("rejects rosters outside 2..8 seats", func(t *testing.T) {
		for _, n := range []int{0, 1, 9} {
			_, err := NewGame("room-1", seats(n), 1500, 100, rand.New(rand.NewSource(1)))
			require.ErrorIs(t, err, apperror.ErrInvalidRoster, "seats: %d", n)
		}
	})

	t.Run("announces the start", func(t *testing.T) {
		game := newGame(t, 2)

		events := game.DrainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventGameStarted, events[0].Kind)
		assert.Equal(t, []string{"Game started with 2 players"}, game.Log)
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.NoError(t, game.ConfirmOngoingState())
		assert.True(t, game.IsOngoing())
	})

	t.Run("finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)
		assert.True(t, game.IsFinished())
	})

	t.Run("not started", func(t *testing.T) {
		game := &Game{}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameIsNotStarted)
	})
}

func TestGame_Lookups(t *testing.T) {
	game := newGame(t, 3)

	player, err := game.Player("p2")
	require.NoError(t, err)
	assert.Equal(t, "Player 2", player.Name)

	_, err = game.Player("ghost")
	assert.ErrorIs(t, err, apperror.ErrPlayerNotFound)

	cell, err := game.Cell(39)
	require.NoError(t, err)
	assert.Equal(t, "dark_blue", cell.Group)

	_, err = game.Cell(BoardSize)
	assert.ErrorIs(t, err, apperror.ErrInvalidCell)

	_, err = game.Trade("t-1")
	assert.ErrorIs(t, err, apperror.ErrTradeNotFound)

	game.Players[1].Bankrupt = true
	active := game.ActivePlayers()
	require.Len(t, active, 2)
	assert.Equal(t, "p1", active[0].ID)
	assert.Equal(t, "p3", active[1].ID)

	orange := game.GroupCells("orange")
	require.Len(t, orange, 3)
	assert.Equal(t, 16, orange[0].ID)
	assert.Equal(t, 19, orange[2].ID)
}

func TestGame_Record(t *testing.T) {
	t.Run("the log keeps only the newest lines", func(t *testing.T) {
		// Given: a game with a log capacity of 5
		game := newGame(t, 2)

		// When: recording seven more lines
		for i := 0; i < 7; i++ {
			game.Record(Event{Kind: EventCashChanged, Message: "line " + strconv.Itoa(i)})
		}

		// Then: the oldest lines are evicted in order
		assert.Equal(t, []string{"line 2", "line 3", "line 4", "line 5", "line 6"}, game.Log)
		assert.Len(t, game.DrainEvents(), 8)
		assert.Empty(t, game.DrainEvents())
	})
}

func TestGame_Clone(t *testing.T) {
	game := newGame(t, 2)
	game.Cells[1].OwnerID = "p1"
	game.Players[0].AddProperty(1)
	game.Auction = &Auction{CellID: 5, Participants: []string{"p2"}, Declined: []string{}}
	game.Revision = 7

	clone := game.Clone()

	// The copy is equal but shares nothing with the original.
	assert.Equal(t, game.Revision, clone.Revision)
	assert.Equal(t, game.Players, clone.Players)
	assert.Nil(t, clone.DrainEvents())

	clone.Cells[1].OwnerID = "p2"
	clone.Players[0].Cash = 1
	clone.Auction.Participants[0] = "p1"
	clone.Chance.Draw()

	assert.Equal(t, "p1", game.Cells[1].OwnerID)
	assert.Equal(t, 1500, game.Players[0].Cash)
	assert.Equal(t, "p2", game.Auction.Participants[0])
	assert.NotEqual(t, game.Chance.Order, clone.Chance.Order)
}
