package entity

type TradeStatus string

const (
	TradeActive    TradeStatus = "active"
	TradeCompleted TradeStatus = "completed"
	TradeCancelled TradeStatus = "cancelled"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferExpired  OfferStatus = "expired"
)

// Trade is a session between exactly two players holding at most one live offer.
type Trade struct {
	ID           string      `json:"id"`
	Participants [2]string   `json:"participants"`
	CreatorID    string      `json:"creator_id"`
	Status       TradeStatus `json:"status"`
	Offer        *Offer      `json:"offer,omitempty"`
}

// Offer moves OfferedCells and OfferedCash from FromID to ToID, and
// RequestedCells and RequestedCash the other way. Times are unix milliseconds.
type Offer struct {
	FromID         string      `json:"from_id"`
	ToID           string      `json:"to_id"`
	OfferedCells   []int       `json:"offered_cells"`
	RequestedCells []int       `json:"requested_cells"`
	OfferedCash    int         `json:"offered_cash"`
	RequestedCash  int         `json:"requested_cash"`
	Status         OfferStatus `json:"status"`
	CreatedAt      int64       `json:"created_at"`
	ExpiresAt      int64       `json:"expires_at"`
}

func (that *Trade) IsActive() bool {
	return that.Status == TradeActive
}

func (that *Trade) HasMember(playerID string) bool {
	return that.Participants[0] == playerID || that.Participants[1] == playerID
}

// Counterpart returns the other participant.
func (that *Trade) Counterpart(playerID string) string {
	if that.Participants[0] == playerID {
		return that.Participants[1]
	}
	return that.Participants[0]
}

func (that *Trade) HasPendingOffer() bool {
	return that.Offer != nil && that.Offer.Status == OfferPending
}

func (that *Offer) IsExpired(now int64) bool {
	return now >= that.ExpiresAt
}
