package entity

// Auction is the single live auction of a game; Game.Auction is nil when none runs.
// Times are unix milliseconds.
type Auction struct {
	CellID       int      `json:"cell_id"`
	CurrentBid   int      `json:"current_bid"`
	BidderID     string   `json:"bidder_id,omitempty"`
	CreatorID    string   `json:"creator_id"`
	Participants []string `json:"participants"`
	Declined     []string `json:"declined"`
	StartedAt    int64    `json:"started_at"`
	EndsAt       int64    `json:"ends_at"`
}

func (that *Auction) IsParticipant(playerID string) bool {
	return contains(that.Participants, playerID)
}

func (that *Auction) HasBidder() bool {
	return that.BidderID != ""
}

// Withdraw moves the player from the active set to the declined set.
func (that *Auction) Withdraw(playerID string) {
	that.Participants = remove(that.Participants, playerID)
	that.Declined = append(that.Declined, playerID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
