package entity

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/bonkopoly/bonkopoly-sub000/internal/apperror"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	MinPlayers = 2
	MaxPlayers = 8
)

type Phase string

const (
	PhaseAwaitingRoll     Phase = "awaiting_roll"
	PhaseMoving           Phase = "moving"
	PhaseResolvingLanding Phase = "resolving_landing"
	PhaseAwaitingEndTurn  Phase = "awaiting_end_turn"
	PhaseGameOver         Phase = "game_over"
)

// Decision is the purchase choice a landing player has to make.
type Decision struct {
	PlayerID string `json:"player_id"`
	CellID   int    `json:"cell_id"`
}

// Turn holds the turn scoped state of the current player.
type Turn struct {
	Phase         Phase     `json:"phase"`
	Dice          [2]int    `json:"dice"`
	Doubles       int       `json:"doubles"`
	DiceConsumed  bool      `json:"dice_consumed"`
	BuiltThisTurn bool      `json:"built_this_turn"`
	Decision      *Decision `json:"decision,omitempty"`
}

func (that *Turn) DiceTotal() int {
	return that.Dice[0] + that.Dice[1]
}

// Game is the full replicated snapshot of one room.
type Game struct {
	ID      string    `json:"id"`
	Status  string    `json:"status"`
	Winner  string    `json:"winner,omitempty"`
	Players []*Player `json:"players"`
	Cells   []Cell    `json:"cells"`
	Current int       `json:"current"`
	Turn    Turn      `json:"turn"`

	Chance         Deck `json:"chance"`
	CommunityChest Deck `json:"community_chest"`

	Auction *Auction `json:"auction,omitempty"`
	Trades  []*Trade `json:"trades"`

	Log         []string `json:"log"`
	LogCapacity int      `json:"log_capacity"`

	// Revision is a per room logical clock, RevisionBy the actor that produced it.
	Revision   uint64 `json:"revision"`
	RevisionBy string `json:"revision_by"`

	events []Event
}

func NewGame(id string, roster []RosterEntry, startingCash, logCapacity int, rnd *rand.Rand) (*Game, error) {
	if len(roster) < MinPlayers || len(roster) > MaxPlayers {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrInvalidRoster, len(roster))
	}

	players := make([]*Player, 0, len(roster))
	for i, seat := range roster {
		playerID := seat.ExternalID
		if playerID == "" {
			playerID = fmt.Sprintf("player-%d", i+1)
		}

		players = append(players, &Player{
			ID:         playerID,
			Name:       seat.Name,
			Color:      seat.Color,
			Icon:       seat.Icon,
			ExternalID: seat.ExternalID,
			Cash:       startingCash,
			Properties: []int{},
		})
	}

	game := &Game{
		ID:             id,
		Status:         StatusOngoing,
		Players:        players,
		Cells:          NewBoard(),
		Turn:           Turn{Phase: PhaseAwaitingRoll},
		Chance:         NewDeck(DeckChance, rnd),
		CommunityChest: NewDeck(DeckCommunityChest, rnd),
		Trades:         []*Trade{},
		Log:            []string{},
		LogCapacity:    logCapacity,
	}

	game.Record(Event{Kind: EventGameStarted, Message: fmt.Sprintf("Game started with %d players", len(players))})

	return game, nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch that.Status {
	case StatusOngoing:
		return nil
	case StatusFinished:
		return apperror.ErrGameFinished
	default:
		return apperror.ErrGameIsNotStarted
	}
}

func (that *Game) Player(id string) (*Player, error) {
	for _, player := range that.Players {
		if player.ID == id {
			return player, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, id)
}

func (that *Game) CurrentPlayer() *Player {
	return that.Players[that.Current]
}

func (that *Game) Cell(id int) (*Cell, error) {
	if id < 0 || id >= len(that.Cells) {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidCell, id)
	}
	return &that.Cells[id], nil
}

// GroupCells returns the cells of the named group in board order.
func (that *Game) GroupCells(group string) []*Cell {
	ids := Groups[group].Cells
	cells := make([]*Cell, 0, len(ids))
	for _, id := range ids {
		cells = append(cells, &that.Cells[id])
	}
	return cells
}

// ActivePlayers returns the players that are not bankrupt.
func (that *Game) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		if player.IsActive() {
			active = append(active, player)
		}
	}
	return active
}

func (that *Game) Trade(id string) (*Trade, error) {
	for _, trade := range that.Trades {
		if trade.ID == id {
			return trade, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperror.ErrTradeNotFound, id)
}

// Record appends the event message to the bounded log and queues the event.
func (that *Game) Record(event Event) {
	that.Log = append(that.Log, event.Message)
	if that.LogCapacity > 0 && len(that.Log) > that.LogCapacity {
		that.Log = append([]string{}, that.Log[len(that.Log)-that.LogCapacity:]...)
	}

	that.events = append(that.events, event)
}

// DrainEvents returns the events recorded since the previous drain.
func (that *Game) DrainEvents() []Event {
	events := that.events
	that.events = nil
	return events
}

// Clone returns a deep copy of the snapshot without pending events.
func (that *Game) Clone() *Game {
	raw, err := json.Marshal(that)
	if err != nil {
		panic(fmt.Errorf("failed to marshal game: %w", err))
	}

	var clone Game
	if err = json.Unmarshal(raw, &clone); err != nil {
		panic(fmt.Errorf("failed to unmarshal game: %w", err))
	}

	return &clone
}

func CellRef(id int) *int {
	return &id
}
