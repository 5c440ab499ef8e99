package replication

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bonkopoly/bonkopoly-sub000/internal/entity"
)

var ErrMalformedEnvelope = errors.New("malformed envelope")

// Meta describes the action that produced a snapshot.
type Meta struct {
	PlayerID  string          `json:"player_id"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Envelope is the unit of replication: the full snapshot of a room plus its action metadata.
type Envelope struct {
	RoomID string       `json:"room_id"`
	State  *entity.Game `json:"state"`
	Meta   Meta         `json:"meta"`
}

func NewEnvelope(roomID string, state *entity.Game, playerID, action string, payload any, now time.Time) (Envelope, error) {
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = encoded
	}

	return Envelope{
		RoomID: roomID,
		State:  state,
		Meta: Meta{
			PlayerID:  playerID,
			Action:    action,
			Payload:   raw,
			Timestamp: now.UnixMilli(),
		},
	}, nil
}

func (that Envelope) Encode() ([]byte, error) {
	raw, err := json.Marshal(that)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return raw, nil
}

func Decode(raw []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return envelope, nil
}
