package game

import "github.com/lox/holdem-room/internal/deck"

// StartingChips is the stack every player receives on seating and again
// when the game ends.
const StartingChips = 1000

// Player is a seated player. Owned exclusively by Game; only the betting
// and phase operations mutate it.
type Player struct {
	ID         string
	Name       string
	Chips      int
	Hand       []deck.Card // 0-2 hole cards
	CurrentBet int
	Folded     bool
	AllIn      bool
	HasActed   bool
	SeatIndex  int
}

// CanAct returns true if the player can still make a voluntary action this
// round.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// resetForHand clears the hand-scoped fields at the start of a new hand.
func (p *Player) resetForHand() {
	p.Hand = p.Hand[:0]
	p.CurrentBet = 0
	p.Folded = false
	p.AllIn = false
	p.HasActed = false
}

// LobbyPlayer is a player who has joined the room but not claimed a seat.
// Promoted to a Player on seat selection.
type LobbyPlayer struct {
	ID   string
	Name string
}
