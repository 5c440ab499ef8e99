package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
	"github.com/bonkopoly/bonkopoly-sub000/internal/engine"
	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
	"github.com/bonkopoly/bonkopoly-sub000/internal/usecase"
)

type call struct {
	method   string
	playerID string
	cellID   int
	tradeID  string
	proposal *engine.Proposal
}

type fakeSession struct {
	mu       sync.Mutex
	calls    []call
	listener usecase.Listener
	game     *entity.Game
	err      error
}

func (that *fakeSession) record(c call) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.calls = append(that.calls, c)
	return that.err
}

func (that *fakeSession) lastCall() call {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.calls) == 0 {
		return call{}
	}
	return that.calls[len(that.calls)-1]
}

func (that *fakeSession) Subscribe(listener usecase.Listener) { that.listener = listener }
func (that *fakeSession) Snapshot() *entity.Game              { return that.game }
func (that *fakeSession) PlayerID() string                    { return "p1" }

func (that *fakeSession) Roll(_ context.Context, id string) error {
	return that.record(call{method: "Roll", playerID: id})
}

func (that *fakeSession) Buy(_ context.Context, id string) error {
	return that.record(call{method: "Buy", playerID: id})
}

func (that *fakeSession) Decline(_ context.Context, id string) error {
	return that.record(call{method: "Decline", playerID: id})
}

func (that *fakeSession) Build(_ context.Context, id string, cell int) error {
	return that.record(call{method: "Build", playerID: id, cellID: cell})
}

func (that *fakeSession) SellBuilding(_ context.Context, id string, cell int) error {
	return that.record(call{method: "SellBuilding", playerID: id, cellID: cell})
}

func (that *fakeSession) Mortgage(_ context.Context, id string, cell int) error {
	return that.record(call{method: "Mortgage", playerID: id, cellID: cell})
}

func (that *fakeSession) Unmortgage(_ context.Context, id string, cell int) error {
	return that.record(call{method: "Unmortgage", playerID: id, cellID: cell})
}

func (that *fakeSession) Liquidate(_ context.Context, id string, amount int) error {
	return that.record(call{method: "Liquidate", playerID: id, cellID: amount})
}

func (that *fakeSession) EndTurn(_ context.Context, id string) error {
	return that.record(call{method: "EndTurn", playerID: id})
}

func (that *fakeSession) PayJailFine(_ context.Context, id string) error {
	return that.record(call{method: "PayJailFine", playerID: id})
}

func (that *fakeSession) UseJailCard(_ context.Context, id string) error {
	return that.record(call{method: "UseJailCard", playerID: id})
}

func (that *fakeSession) StartAuction(_ context.Context, id string, cell int) error {
	return that.record(call{method: "StartAuction", playerID: id, cellID: cell})
}

func (that *fakeSession) Bid(_ context.Context, id string) error {
	return that.record(call{method: "Bid", playerID: id})
}

func (that *fakeSession) DeclineBid(_ context.Context, id string) error {
	return that.record(call{method: "DeclineBid", playerID: id})
}

func (that *fakeSession) EndAuction(_ context.Context, id string) error {
	return that.record(call{method: "EndAuction", playerID: id})
}

func (that *fakeSession) OpenTrade(_ context.Context, id, target string) (string, error) {
	return "trade-9", that.record(call{method: "OpenTrade", playerID: id, tradeID: target})
}

func (that *fakeSession) ProposeTrade(_ context.Context, id, trade string, proposal engine.Proposal) error {
	return that.record(call{method: "ProposeTrade", playerID: id, tradeID: trade, proposal: &proposal})
}

func (that *fakeSession) AcceptTrade(_ context.Context, id, trade string) error {
	return that.record(call{method: "AcceptTrade", playerID: id, tradeID: trade})
}

func (that *fakeSession) RejectTrade(_ context.Context, id, trade string) error {
	return that.record(call{method: "RejectTrade", playerID: id, tradeID: trade})
}

func (that *fakeSession) CancelTrade(_ context.Context, id, trade string) error {
	return that.record(call{method: "CancelTrade", playerID: id, tradeID: trade})
}

func newTestGame(t *testing.T) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("room-1", []entity.RosterEntry{
		{Name: "Ann", ExternalID: "p1"},
		{Name: "Bob", ExternalID: "p2"},
	}, 1500, 100, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	game.DrainEvents()

	return game
}

func dial(t *testing.T, session *fakeSession) *websocket.Conn {
	t.Helper()

	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), session)
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})

	assert.NotEmpty(t, resp.Header.Get("Set-Cookie"))

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) (Message, Payload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload Payload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message, payload
}

func TestServer_SendsSnapshotOnConnect(t *testing.T) {
	session := &fakeSession{game: newTestGame(t)}

	conn := dial(t, session)

	message, payload := receive(t, conn)
	assert.Equal(t, actionState, message.Action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, "room-1", payload.Game.ID)
}

func TestServer_DispatchesActions(t *testing.T) {
	session := &fakeSession{}
	conn := dial(t, session)

	cell := 3
	cases := []struct {
		action  string
		payload any
		want    call
	}{
		{"game:roll", nil, call{method: "Roll", playerID: "p1"}},
		{"game:buy", nil, call{method: "Buy", playerID: "p1"}},
		{"game:build", Request{CellID: &cell}, call{method: "Build", playerID: "p1", cellID: 3}},
		{"game:mortgage", Request{CellID: &cell}, call{method: "Mortgage", playerID: "p1", cellID: 3}},
		{"auction:start", Request{CellID: &cell}, call{method: "StartAuction", playerID: "p1", cellID: 3}},
		{"auction:bid", nil, call{method: "Bid", playerID: "p1"}},
		{"trade:accept", Request{TradeID: "t-1"}, call{method: "AcceptTrade", playerID: "p1", tradeID: "t-1"}},
		{"game:liquidate", Request{Amount: 120}, call{method: "Liquidate", playerID: "p1", cellID: 120}},
		{"game:end-turn", nil, call{method: "EndTurn", playerID: "p1"}},
	}

	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			send(t, conn, tc.action, tc.payload)

			assert.Eventually(t, func() bool {
				return session.lastCall() == tc.want
			}, 5*time.Second, 10*time.Millisecond)
		})
	}
}

func TestServer_OpenTradeRepliesWithID(t *testing.T) {
	session := &fakeSession{}
	conn := dial(t, session)

	// When: opening a trade with p2
	send(t, conn, "trade:open", Request{TargetID: "p2"})

	// Then: the new trade id is sent back
	message, payload := receive(t, conn)
	assert.Equal(t, "trade:open", message.Action)
	assert.Equal(t, "trade-9", payload.TradeID)
	assert.Equal(t, "p2", session.lastCall().tradeID)
}

func TestServer_ReportsErrors(t *testing.T) {
	t.Run("rule violation", func(t *testing.T) {
		session := &fakeSession{err: apperror.ErrNotYourTurn}
		conn := dial(t, session)

		send(t, conn, "game:roll", nil)

		message, payload := receive(t, conn)
		assert.Equal(t, "game:roll", message.Action)
		assert.Equal(t, apperror.ErrNotYourTurn.Error(), payload.Error)
	})

	t.Run("missing cell", func(t *testing.T) {
		conn := dial(t, &fakeSession{})

		send(t, conn, "game:build", Request{})

		_, payload := receive(t, conn)
		assert.Equal(t, ErrMissingCell.Error(), payload.Error)
	})

	t.Run("unknown action", func(t *testing.T) {
		conn := dial(t, &fakeSession{})

		send(t, conn, "game:cheat", nil)

		message, payload := receive(t, conn)
		assert.Equal(t, "game:cheat", message.Action)
		assert.Equal(t, ErrUnknownAction.Error(), payload.Error)
	})
}

func TestServer_BroadcastsAdoptedSnapshots(t *testing.T) {
	session := &fakeSession{}
	conn := dial(t, session)

	// Given: the client is registered
	send(t, conn, "game:roll", nil)
	require.Eventually(t, func() bool { return session.lastCall().method == "Roll" }, 5*time.Second, 10*time.Millisecond)

	// When: the session adopts a snapshot
	game := newTestGame(t)
	session.listener(game, []entity.Event{{Kind: entity.EventRolled, PlayerID: "p1", Message: "Ann rolled 1 and 2"}})

	// Then: it is pushed with its events
	message, payload := receive(t, conn)
	assert.Equal(t, actionState, message.Action)
	require.Len(t, payload.Events, 1)
	assert.Equal(t, entity.EventRolled, payload.Events[0].Kind)
}

func TestServer_ProposeTrade(t *testing.T) {
	session := &fakeSession{}
	conn := dial(t, session)

	send(t, conn, "trade:offer", Request{TradeID: "t-1", Offer: &engine.Proposal{
		OfferedCells:  []int{1, 3},
		RequestedCash: 100,
	}})

	require.Eventually(t, func() bool { return session.lastCall().method == "ProposeTrade" }, 5*time.Second, 10*time.Millisecond)

	got := session.lastCall()
	assert.Equal(t, "t-1", got.tradeID)
	require.NotNil(t, got.proposal)
	assert.Equal(t, []int{1, 3}, got.proposal.OfferedCells)
	assert.Equal(t, 100, got.proposal.RequestedCash)
}
