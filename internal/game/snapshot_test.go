package game

import (
	"errors"
	"testing"
	"time"
)

func TestPublicStateHidesHoleCards(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)
	if err := g.StartGame("p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	state := g.PublicState()
	for _, p := range state.Players {
		if p.CardCount != 2 {
			t.Errorf("player %s: expected card count 2, got %d", p.Name, p.CardCount)
		}
		if p.VisibleCards != nil {
			t.Errorf("player %s: hole cards leaked mid-hand: %v", p.Name, p.VisibleCards)
		}
	}
	for _, seat := range state.Seats {
		if seat.Player != nil && seat.Player.VisibleCards != nil {
			t.Errorf("seat %d: hole cards leaked mid-hand", seat.SeatIndex)
		}
	}
}

func TestViewIncludesOwnCardsOnly(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)
	if err := g.StartGame("p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	view, err := g.View("p1")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.PlayerCards) != 2 {
		t.Errorf("expected 2 own hole cards, got %d", len(view.PlayerCards))
	}
	for _, p := range view.Players {
		if p.VisibleCards != nil {
			t.Errorf("player %s: opponent cards leaked mid-hand", p.Name)
		}
	}
}

func TestViewUnknownPlayer(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)

	if _, err := g.View("ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestShowCardsRevealsAfterHand(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)
	if err := g.StartGame("p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := g.Fold("p2"); err != nil {
		t.Fatalf("fold failed: %v", err)
	}

	// The winner was never forced to show; nothing is revealed yet.
	state := g.PublicState()
	if state.Players[0].ShowingCards || state.Players[0].VisibleCards != nil {
		t.Error("winner's cards revealed without opting to show")
	}

	if err := g.ShowCards("p1"); err != nil {
		t.Fatalf("show cards failed: %v", err)
	}
	state = g.PublicState()
	if !state.Players[0].ShowingCards {
		t.Error("expected winner to be showing")
	}
	if len(state.Players[0].VisibleCards) != 2 {
		t.Errorf("expected 2 visible cards, got %d", len(state.Players[0].VisibleCards))
	}

	// Folded players cannot show.
	if err := g.ShowCards("p2"); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction for folded player, got %v", err)
	}
}

func TestViewRevealsOwnCardsAfterHand(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)
	if err := g.StartGame("p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := g.Fold("p2"); err != nil {
		t.Fatalf("fold failed: %v", err)
	}

	view, err := g.View("p1")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if len(view.Players[0].VisibleCards) != 2 {
		t.Errorf("expected own cards visible in own post-hand view, got %d", len(view.Players[0].VisibleCards))
	}

	// The opponent's view still hides them.
	other, err := g.View("p2")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if other.Players[0].VisibleCards != nil {
		t.Error("unshown winner cards leaked to opponent view")
	}
}

func TestHandTimeRemaining(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2, WithActionTimeout(20*time.Second))
	if err := g.StartGame("p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if state := g.PublicState(); state.HandTimeRemaining != 20000 {
		t.Errorf("expected 20000ms on the action clock, got %d", state.HandTimeRemaining)
	}

	if err := g.Fold("p2"); err != nil {
		t.Fatalf("fold failed: %v", err)
	}
	if state := g.PublicState(); state.HandTimeRemaining != 0 {
		t.Errorf("expected no action clock after the hand, got %d", state.HandTimeRemaining)
	}
}

func TestSnapshotSeatRing(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 0)
	_ = g.JoinLobby("p1", "Alice")
	_ = g.JoinLobby("p2", "Bob")
	_ = g.ClaimSeat("p1", 0)
	_ = g.ClaimSeat("p2", 4)

	state := g.PublicState()
	if len(state.Seats) != DefaultMaxSeats {
		t.Fatalf("expected %d seats, got %d", DefaultMaxSeats, len(state.Seats))
	}
	for i, seat := range state.Seats {
		if seat.SeatIndex != i {
			t.Errorf("seat %d mis-indexed as %d", i, seat.SeatIndex)
		}
		occupied := i == 0 || i == 4
		if occupied && seat.Player == nil {
			t.Errorf("seat %d should be occupied", i)
		}
		if !occupied && seat.Player != nil {
			t.Errorf("seat %d should be empty", i)
		}
	}
	if state.Seats[4].Player.Name != "Bob" {
		t.Errorf("expected Bob in seat 4, got %s", state.Seats[4].Player.Name)
	}
}

func TestSnapshotLobbyPlayers(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)
	_ = g.JoinLobby("p9", "Lurker")

	state := g.PublicState()
	if len(state.LobbyPlayers) != 1 || state.LobbyPlayers[0].Name != "Lurker" {
		t.Errorf("unexpected lobby: %+v", state.LobbyPlayers)
	}
}
