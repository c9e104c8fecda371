package game

import (
	"time"

	"github.com/lox/holdem-room/internal/deck"
)

// PlayerPublic is a player as everyone at the table sees them: hole cards
// appear as a count only, unless the player is showing them after the
// hand.
type PlayerPublic struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Chips        int         `json:"chips"`
	CurrentBet   int         `json:"currentBet"`
	Folded       bool        `json:"folded"`
	AllIn        bool        `json:"allIn"`
	HasActed     bool        `json:"hasActed"`
	CardCount    int         `json:"cards"`
	ShowingCards bool        `json:"showingCards"`
	SeatIndex    int         `json:"seatIndex"`
	VisibleCards []deck.Card `json:"visibleCards,omitempty"`
}

// SeatState is one slot of the fixed seat ring.
type SeatState struct {
	SeatIndex int           `json:"seatIndex"`
	Player    *PlayerPublic `json:"player"`
}

// LobbyPlayerState is a lobby member in a snapshot.
type LobbyPlayerState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WinnerState identifies the winner of the last hand.
type WinnerState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomState is the full room view for spectators and lobby members. It
// never contains hidden hole cards.
type RoomState struct {
	RoomID             string             `json:"roomId"`
	Seats              []SeatState        `json:"seats"`
	Players            []PlayerPublic     `json:"players"`
	LobbyPlayers       []LobbyPlayerState `json:"lobbyPlayers"`
	CommunityCards     []deck.Card        `json:"communityCards"`
	Pot                int                `json:"pot"`
	CurrentBet         int                `json:"currentBet"`
	CurrentPlayerIndex int                `json:"currentPlayerIndex"`
	Phase              Phase              `json:"phase"`
	DealerIndex        int                `json:"dealerIndex"`
	Winner             *WinnerState       `json:"winner"`
	CreatorID          string             `json:"creatorId"`
	HandTimeRemaining  int                `json:"handTimeRemaining"` // milliseconds
}

// PlayerView is a RoomState that additionally carries the viewer's own
// hole cards.
type PlayerView struct {
	RoomState
	PlayerCards []deck.Card `json:"playerCards"`
}

// PublicState returns the room view with all hole cards hidden.
func (g *Game) PublicState() RoomState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roomStateLocked("")
}

// View returns the per-player view: the viewer's own hole cards, plus,
// once the hand has ended, the cards of every player who is showing.
func (g *Game) View(playerID string) (PlayerView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.findPlayer(playerID)
	if p == nil {
		return PlayerView{}, ErrPlayerNotFound
	}

	cards := make([]deck.Card, len(p.Hand))
	copy(cards, p.Hand)
	return PlayerView{
		RoomState:   g.roomStateLocked(playerID),
		PlayerCards: cards,
	}, nil
}

func (g *Game) roomStateLocked(viewerID string) RoomState {
	players := make([]PlayerPublic, len(g.players))
	for i, p := range g.players {
		players[i] = g.playerPublicLocked(p, viewerID)
	}

	seats := make([]SeatState, len(g.seats))
	for i, p := range g.seats {
		seats[i] = SeatState{SeatIndex: i}
		if p != nil {
			pub := g.playerPublicLocked(p, viewerID)
			seats[i].Player = &pub
		}
	}

	lobby := make([]LobbyPlayerState, len(g.lobbyPlayers))
	for i, lp := range g.lobbyPlayers {
		lobby[i] = LobbyPlayerState{ID: lp.ID, Name: lp.Name}
	}

	community := make([]deck.Card, len(g.communityCards))
	copy(community, g.communityCards)

	var winner *WinnerState
	if g.hand.winner != nil {
		winner = &WinnerState{ID: g.hand.winner.ID, Name: g.hand.winner.Name}
	}

	remaining := 0
	if g.actionTimer != nil {
		remaining = int(g.actionTimeout / time.Millisecond)
	}

	return RoomState{
		RoomID:             g.roomID,
		Seats:              seats,
		Players:            players,
		LobbyPlayers:       lobby,
		CommunityCards:     community,
		Pot:                g.pot,
		CurrentBet:         g.currentBet,
		CurrentPlayerIndex: g.currentPlayerIndex,
		Phase:              g.phase,
		DealerIndex:        g.dealerIndex,
		Winner:             winner,
		CreatorID:          g.creatorID,
		HandTimeRemaining:  remaining,
	}
}

func (g *Game) playerPublicLocked(p *Player, viewerID string) PlayerPublic {
	_, showing := g.hand.showing[p.ID]

	pub := PlayerPublic{
		ID:           p.ID,
		Name:         p.Name,
		Chips:        p.Chips,
		CurrentBet:   p.CurrentBet,
		Folded:       p.Folded,
		AllIn:        p.AllIn,
		HasActed:     p.HasActed,
		CardCount:    len(p.Hand),
		ShowingCards: showing,
		SeatIndex:    p.SeatIndex,
	}

	// After the hand, reveal the cards of players who are showing them,
	// and always the viewer's own.
	if g.phase == HandEnded && (showing || (viewerID != "" && p.ID == viewerID)) {
		pub.VisibleCards = make([]deck.Card, len(p.Hand))
		copy(pub.VisibleCards, p.Hand)
	}
	return pub
}
