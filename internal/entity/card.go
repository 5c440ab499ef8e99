package entity

import "math/rand"

type DeckKind string

const (
	DeckChance         DeckKind = "chance"
	DeckCommunityChest DeckKind = "community_chest"

	DeckSize = 16
)

type CardAction string

const (
	CardAdvanceTo       CardAction = "advance_to"
	CardNearestRailroad CardAction = "nearest_railroad"
	CardNearestUtility  CardAction = "nearest_utility"
	CardMoveBy          CardAction = "move_by"
	CardCollect         CardAction = "collect"
	CardPay             CardAction = "pay"
	CardCollectFromAll  CardAction = "collect_from_each"
	CardPayAll          CardAction = "pay_each"
	CardRepairs         CardAction = "repairs"
	CardGoToJail        CardAction = "go_to_jail"
	CardJailFree        CardAction = "jail_free"
)

// Card is a single chance or community chest card. Amount is the cash value,
// Target the destination cell and Steps a relative move. Repairs use PerHouse/PerHotel.
type Card struct {
	ID       int        `json:"id"`
	Text     string     `json:"text"`
	Action   CardAction `json:"action"`
	Amount   int        `json:"amount,omitempty"`
	Target   int        `json:"target,omitempty"`
	Steps    int        `json:"steps,omitempty"`
	PerHouse int        `json:"per_house,omitempty"`
	PerHotel int        `json:"per_hotel,omitempty"`
}

// Deck is circular: Order holds card ids, the head is drawn and moved to the tail.
type Deck struct {
	Kind  DeckKind `json:"kind"`
	Order []int    `json:"order"`
}

func (that *Deck) Draw() Card {
	id := that.Order[0]
	that.Order = append(that.Order[1:], id)

	return CardByID(that.Kind, id)
}

// NewDeck returns a deck in a shuffled order.
func NewDeck(kind DeckKind, rnd *rand.Rand) Deck {
	order := rnd.Perm(DeckSize)
	return Deck{Kind: kind, Order: order}
}

func CardByID(kind DeckKind, id int) Card {
	if kind == DeckCommunityChest {
		return communityChestCards[id]
	}
	return chanceCards[id]
}

var chanceCards = [DeckSize]Card{
	{ID: 0, Text: "Advance to Start", Action: CardAdvanceTo, Target: StartCell},
	{ID: 1, Text: "Advance to Illinois Avenue", Action: CardAdvanceTo, Target: 24},
	{ID: 2, Text: "Advance to St. Charles Place", Action: CardAdvanceTo, Target: 11},
	{ID: 3, Text: "Advance to the nearest utility", Action: CardNearestUtility},
	{ID: 4, Text: "Advance to the nearest railroad", Action: CardNearestRailroad},
	{ID: 5, Text: "Advance to the nearest railroad", Action: CardNearestRailroad},
	{ID: 6, Text: "Bank pays you dividend of 50", Action: CardCollect, Amount: 50},
	{ID: 7, Text: "Get out of jail free", Action: CardJailFree},
	{ID: 8, Text: "Go back three spaces", Action: CardMoveBy, Steps: -3},
	{ID: 9, Text: "Go to jail", Action: CardGoToJail},
	{ID: 10, Text: "Make general repairs on all your property", Action: CardRepairs, PerHouse: 25, PerHotel: 100},
	{ID: 11, Text: "Speeding fine 15", Action: CardPay, Amount: 15},
	{ID: 12, Text: "Take a trip to Reading Railroad", Action: CardAdvanceTo, Target: 5},
	{ID: 13, Text: "Advance to Boardwalk", Action: CardAdvanceTo, Target: 39},
	{ID: 14, Text: "You have been elected chairman of the board, pay each player 50", Action: CardPayAll, Amount: 50},
	{ID: 15, Text: "Your building loan matures, collect 150", Action: CardCollect, Amount: 150},
}

var communityChestCards = [DeckSize]Card{
	{ID: 0, Text: "Advance to Start", Action: CardAdvanceTo, Target: StartCell},
	{ID: 1, Text: "Bank error in your favor, collect 200", Action: CardCollect, Amount: 200},
	{ID: 2, Text: "Doctor's fee, pay 50", Action: CardPay, Amount: 50},
	{ID: 3, Text: "From sale of stock you get 50", Action: CardCollect, Amount: 50},
	{ID: 4, Text: "Get out of jail free", Action: CardJailFree},
	{ID: 5, Text: "Go to jail", Action: CardGoToJail},
	{ID: 6, Text: "Holiday fund matures, receive 100", Action: CardCollect, Amount: 100},
	{ID: 7, Text: "Income tax refund, collect 20", Action: CardCollect, Amount: 20},
	{ID: 8, Text: "It is your birthday, collect 10 from every player", Action: CardCollectFromAll, Amount: 10},
	{ID: 9, Text: "Life insurance matures, collect 100", Action: CardCollect, Amount: 100},
	{ID: 10, Text: "Pay hospital fees of 100", Action: CardPay, Amount: 100},
	{ID: 11, Text: "Pay school fees of 50", Action: CardPay, Amount: 50},
	{ID: 12, Text: "Receive 25 consultancy fee", Action: CardCollect, Amount: 25},
	{ID: 13, Text: "You are assessed for street repairs", Action: CardRepairs, PerHouse: 40, PerHotel: 115},
	{ID: 14, Text: "You have won second prize in a beauty contest, collect 10", Action: CardCollect, Amount: 10},
	{ID: 15, Text: "You inherit 100", Action: CardCollect, Amount: 100},
}
