package replication

import "github.com/bonkopoly/bonkopoly-sub000/internal/entity"

type Verdict int

const (
	Applied Verdict = iota
	Own
	Stale
	Invalid
)

func (that Verdict) String() string {
	switch that {
	case Applied:
		return "applied"
	case Own:
		return "own"
	case Stale:
		return "stale"
	default:
		return "invalid"
	}
}

// Merge decides whether a received envelope replaces the local snapshot.
// Envelopes authored by self, without players, or not newer than local are discarded;
// anything else is adopted wholesale.
func Merge(self string, local *entity.Game, envelope Envelope) (*entity.Game, Verdict) {
	if envelope.Meta.PlayerID == self {
		return local, Own
	}

	if envelope.State == nil || len(envelope.State.Players) == 0 {
		return local, Invalid
	}

	if local != nil && !Newer(envelope.State, local) {
		return local, Stale
	}

	return envelope.State, Applied
}

// Newer orders snapshots by logical clock, breaking ties on the author id.
func Newer(candidate, local *entity.Game) bool {
	if candidate.Revision != local.Revision {
		return candidate.Revision > local.Revision
	}
	return candidate.RevisionBy > local.RevisionBy
}

// Stamp advances the logical clock of a locally mutated snapshot.
func Stamp(game *entity.Game, actorID string) {
	game.Revision++
	game.RevisionBy = actorID
}
