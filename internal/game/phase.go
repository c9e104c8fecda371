package game

import "encoding/json"

// Phase is the room's position in the hand lifecycle. Transitions only
// move forward through waiting -> preflop -> flop -> turn -> river ->
// showdown -> hand-ended -> (next hand) preflop, or back to waiting on
// premature termination.
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
	HandEnded
)

// String returns the wire name of the phase
func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case HandEnded:
		return "hand-ended"
	default:
		return "?"
	}
}

// MarshalJSON serializes the phase by its wire name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
