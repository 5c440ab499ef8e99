package entity

type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventRolled         EventKind = "rolled"
	EventMoved          EventKind = "moved"
	EventPassedStart    EventKind = "passed_start"
	EventPurchaseOffer  EventKind = "purchase_offer"
	EventBought         EventKind = "bought"
	EventDeclined       EventKind = "declined"
	EventRentPaid       EventKind = "rent_paid"
	EventTaxPaid        EventKind = "tax_paid"
	EventCardDrawn      EventKind = "card_drawn"
	EventCashChanged    EventKind = "cash_changed"
	EventJailed         EventKind = "jailed"
	EventReleased       EventKind = "released"
	EventStayedInJail   EventKind = "stayed_in_jail"
	EventBuilt          EventKind = "built"
	EventBuildingSold   EventKind = "building_sold"
	EventMortgaged      EventKind = "mortgaged"
	EventUnmortgaged    EventKind = "unmortgaged"
	EventAuctionStarted EventKind = "auction_started"
	EventBid            EventKind = "bid"
	EventBidDeclined    EventKind = "bid_declined"
	EventAuctionWon     EventKind = "auction_won"
	EventAuctionUnsold  EventKind = "auction_unsold"
	EventTradeOpened    EventKind = "trade_opened"
	EventTradeOffered   EventKind = "trade_offered"
	EventTradeAccepted  EventKind = "trade_accepted"
	EventTradeRejected  EventKind = "trade_rejected"
	EventTradeCancelled EventKind = "trade_cancelled"
	EventTradeExpired   EventKind = "trade_expired"
	EventDebtPending    EventKind = "debt_pending"
	EventLiquidated     EventKind = "liquidated"
	EventBankrupt       EventKind = "bankrupt"
	EventGameWon        EventKind = "game_won"
	EventTurnEnded      EventKind = "turn_ended"
	EventRejected       EventKind = "rejected"
)

// Event is the typed counterpart of a game log line. Effect layers dispatch on Kind.
type Event struct {
	Kind     EventKind `json:"kind"`
	PlayerID string    `json:"player_id,omitempty"`
	CellID   *int      `json:"cell_id,omitempty"`
	Amount   int       `json:"amount,omitempty"`
	Message  string    `json:"message"`
}
