package entity

import "sort"

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Icon       string `json:"icon,omitempty"`
	ExternalID string `json:"external_id,omitempty"`

	Cash         int   `json:"cash"`
	Position     int   `json:"position"`
	Properties   []int `json:"properties"`
	InJail       bool  `json:"in_jail"`
	JailTurns    int   `json:"jail_turns"`
	JailFreeCard int   `json:"jail_free_cards"`
	Bankrupt     bool  `json:"bankrupt"`

	// Debt is set while the player owes money they must raise by liquidating.
	Debt *Debt `json:"debt,omitempty"`
}

// Debt is an unpaid obligation waiting for liquidation. An empty CreditorID means the bank.
type Debt struct {
	Amount     int    `json:"amount"`
	CreditorID string `json:"creditor_id,omitempty"`
	Reason     string `json:"reason"`
}

// RosterEntry is one seat supplied by the lobby.
type RosterEntry struct {
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Icon       string `json:"icon,omitempty"`
	ExternalID string `json:"external_id"`
}

func (that *Player) Owns(cellID int) bool {
	for _, id := range that.Properties {
		if id == cellID {
			return true
		}
	}
	return false
}

func (that *Player) AddProperty(cellID int) {
	if that.Owns(cellID) {
		return
	}
	that.Properties = append(that.Properties, cellID)
	sort.Ints(that.Properties)
}

func (that *Player) RemoveProperty(cellID int) {
	kept := that.Properties[:0]
	for _, id := range that.Properties {
		if id != cellID {
			kept = append(kept, id)
		}
	}
	that.Properties = kept
}

func (that *Player) IsActive() bool {
	return !that.Bankrupt
}
