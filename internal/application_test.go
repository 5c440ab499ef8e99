package application

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkopoly/bonkopoly-sub000/internal/config"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
	"github.com/bonkopoly/bonkopoly-sub000/internal/repository"
	"github.com/bonkopoly/bonkopoly-sub000/testing/suite"
)

func TestSeedRoster(t *testing.T) {
	t.Run("stores the configured roster in a fresh room", func(t *testing.T) {
		ctx, st := suite.New(t)

		rosters := repository.NewRosterRepository(st.Storage)
		conf := &config.Config{RoomID: "room-1", Roster: []config.Seat{
			{Name: "Ann", Color: "red", ExternalID: "p1"},
			{Name: "Bob", Icon: "hat", ExternalID: "p2"},
		}}

		require.NoError(t, seedRoster(ctx, st.Logger, rosters, conf))

		roster, err := rosters.Get(ctx, "room-1")
		require.NoError(t, err)
		assert.Equal(t, []entity.RosterEntry{
			{Name: "Ann", Color: "red", ExternalID: "p1"},
			{Name: "Bob", Icon: "hat", ExternalID: "p2"},
		}, roster)
	})

	t.Run("keeps an existing roster", func(t *testing.T) {
		ctx, st := suite.New(t)

		rosters := repository.NewRosterRepository(st.Storage)
		existing := []entity.RosterEntry{{Name: "Cid", ExternalID: "p3"}, {Name: "Dee", ExternalID: "p4"}}
		require.NoError(t, rosters.Save(ctx, "room-1", existing))

		conf := &config.Config{RoomID: "room-1", Roster: []config.Seat{{Name: "Ann", ExternalID: "p1"}}}
		require.NoError(t, seedRoster(ctx, st.Logger, rosters, conf))

		roster, err := rosters.Get(ctx, "room-1")
		require.NoError(t, err)
		assert.Equal(t, existing, roster)
	})
}

func TestRunApp_RequiresIdentity(t *testing.T) {
	err := RunApp(slog.New(slog.NewTextHandler(io.Discard, nil)), &config.Config{RoomID: "room-1"})

	require.ErrorIs(t, err, ErrNoIdentity)
}
