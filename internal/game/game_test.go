package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lox/holdem-room/internal/randutil"
)

// newTestGame seats n players p1..pn in seats 0..n-1 with a deterministic
// deck. p1 is the room creator.
func newTestGame(t *testing.T, n int, opts ...Option) (*Game, []string) {
	t.Helper()

	opts = append([]Option{WithRNG(randutil.New(1))}, opts...)
	g := New("TEST01", DefaultMaxSeats, opts...)

	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i+1)
		ids[i] = id
		if err := g.JoinLobby(id, fmt.Sprintf("Player %d", i+1)); err != nil {
			t.Fatalf("join lobby %s: %v", id, err)
		}
		if err := g.ClaimSeat(id, i); err != nil {
			t.Fatalf("claim seat %d: %v", i, err)
		}
	}
	return g, ids
}

// totalChips sums every seated stack plus the pot, the quantity the engine
// must conserve across a hand.
func totalChips(g *Game) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := g.pot
	for _, p := range g.players {
		total += p.Chips
	}
	return total
}

func TestJoinLobbyDuplicateRejected(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 0)

	if err := g.JoinLobby("p1", "Alice"); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if err := g.JoinLobby("p1", "Alice again"); !errors.Is(err, ErrPlayerAlreadyPresent) {
		t.Errorf("expected ErrPlayerAlreadyPresent, got %v", err)
	}
}

func TestJoinLobbySeatedPlayerRejected(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)

	if err := g.JoinLobby(ids[0], "Alice"); !errors.Is(err, ErrPlayerAlreadyPresent) {
		t.Errorf("expected ErrPlayerAlreadyPresent, got %v", err)
	}
}

func TestJoinLobbyRoomFull(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 2)

	if err := g.JoinLobby("p1", "Alice"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.JoinLobby("p2", "Bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.JoinLobby("p3", "Carol"); !errors.Is(err, ErrRoomFull) {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
}

func TestFirstJoinerIsCreator(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 0)
	_ = g.JoinLobby("p1", "Alice")
	_ = g.JoinLobby("p2", "Bob")

	if state := g.PublicState(); state.CreatorID != "p1" {
		t.Errorf("expected creator p1, got %q", state.CreatorID)
	}
}

func TestClaimSeatRequiresLobby(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 0)

	if err := g.ClaimSeat("ghost", 0); !errors.Is(err, ErrNotInLobby) {
		t.Errorf("expected ErrNotInLobby, got %v", err)
	}
}

func TestClaimSeatUnavailable(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 0)
	_ = g.JoinLobby("p1", "Alice")
	_ = g.JoinLobby("p2", "Bob")

	if err := g.ClaimSeat("p1", 3); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := g.ClaimSeat("p2", 3); !errors.Is(err, ErrSeatUnavailable) {
		t.Errorf("occupied seat: expected ErrSeatUnavailable, got %v", err)
	}
	if err := g.ClaimSeat("p2", -1); !errors.Is(err, ErrSeatUnavailable) {
		t.Errorf("negative seat: expected ErrSeatUnavailable, got %v", err)
	}
	if err := g.ClaimSeat("p2", DefaultMaxSeats); !errors.Is(err, ErrSeatUnavailable) {
		t.Errorf("out-of-range seat: expected ErrSeatUnavailable, got %v", err)
	}
}

func TestClaimSeatGrantsStartingStack(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)

	state := g.PublicState()
	for _, p := range state.Players {
		if p.Chips != StartingChips {
			t.Errorf("player %s: expected %d chips, got %d", p.Name, StartingChips, p.Chips)
		}
	}
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 0)
	_ = g.JoinLobby("p1", "Alice")
	_ = g.ClaimSeat("p1", 0)

	if err := g.StartGame("p1"); !errors.Is(err, ErrInsufficientPlayers) {
		t.Errorf("expected ErrInsufficientPlayers, got %v", err)
	}
}

func TestStartGameRequiresCreator(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)

	if err := g.StartGame(ids[1]); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
	if g.Phase() != Waiting {
		t.Errorf("phase changed on rejected start: %v", g.Phase())
	}
}

func TestStartGameDealsFirstHand(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 3)

	if err := g.StartGame(ids[0]); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if g.Phase() != Preflop {
		t.Errorf("expected Preflop, got %v", g.Phase())
	}

	state := g.PublicState()
	if state.Pot != DefaultSmallBlind+DefaultBigBlind {
		t.Errorf("expected pot %d, got %d", DefaultSmallBlind+DefaultBigBlind, state.Pot)
	}
	if state.CurrentBet != DefaultBigBlind {
		t.Errorf("expected current bet %d, got %d", DefaultBigBlind, state.CurrentBet)
	}
	if state.DealerIndex != 0 {
		t.Errorf("expected dealer at 0, got %d", state.DealerIndex)
	}
	for _, p := range state.Players {
		if p.CardCount != 2 {
			t.Errorf("player %s: expected 2 hole cards, got %d", p.Name, p.CardCount)
		}
	}
	if got := totalChips(g); got != 3*StartingChips {
		t.Errorf("chips not conserved: expected %d, got %d", 3*StartingChips, got)
	}
}

func TestActUnknownAction(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)
	if err := g.StartGame(ids[0]); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := g.Act(ids[0], Action("jump"), 0); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestActUnknownPlayer(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)
	if err := g.StartGame(ids[0]); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := g.Act("ghost", ActionCall, 0); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestRemovePlayerMidHandEndsGame(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)
	if err := g.StartGame(ids[0]); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	g.RemovePlayer(ids[1])

	if g.Phase() != Waiting {
		t.Errorf("expected Waiting after eviction, got %v", g.Phase())
	}
	state := g.PublicState()
	if len(state.Players) != 1 {
		t.Fatalf("expected 1 remaining player, got %d", len(state.Players))
	}
	if state.Players[0].Chips != StartingChips {
		t.Errorf("expected stack reset to %d, got %d", StartingChips, state.Players[0].Chips)
	}
	if state.Pot != 0 {
		t.Errorf("expected empty pot, got %d", state.Pot)
	}
}

func TestRemoveLobbyPlayer(t *testing.T) {
	t.Parallel()
	g := New("TEST01", 0)
	_ = g.JoinLobby("p1", "Alice")

	g.RemovePlayer("p1")
	if !g.Empty() {
		t.Error("expected room to be empty")
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)

	if g.Empty() {
		t.Error("room with seated players reported empty")
	}
	g.RemovePlayer(ids[0])
	g.RemovePlayer(ids[1])
	if !g.Empty() {
		t.Error("expected empty room after all players left")
	}
}

func TestSeatedAndPlayerIDs(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)
	_ = g.JoinLobby("p9", "Lurker")

	seated := g.SeatedIDs()
	if len(seated) != 2 || seated[0] != ids[0] || seated[1] != ids[1] {
		t.Errorf("unexpected seated ids: %v", seated)
	}
	if all := g.PlayerIDs(); len(all) != 3 {
		t.Errorf("expected 3 room members, got %v", all)
	}
}

func TestShowCardsOnlyAfterHandEnded(t *testing.T) {
	t.Parallel()
	g, ids := newTestGame(t, 2)
	if err := g.StartGame(ids[0]); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := g.ShowCards(ids[0]); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction mid-hand, got %v", err)
	}
}
