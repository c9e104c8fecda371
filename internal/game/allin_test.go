package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
)

func TestAllInRunsOutBoard(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	g, _ := newTestGame(t, 2, WithClock(mClock))

	if err := g.StartGame("p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Small blind shoves, big blind calls for their stack: both all-in.
	if err := g.Raise("p2", 2*StartingChips); err != nil {
		t.Fatalf("raise failed: %v", err)
	}
	if err := g.Call("p1"); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	state := g.PublicState()
	if !state.Players[0].AllIn || !state.Players[1].AllIn {
		t.Fatal("expected both players all-in")
	}
	if state.Pot != 2*StartingChips {
		t.Fatalf("expected pot %d, got %d", 2*StartingChips, state.Pot)
	}

	// With nobody left to act the board runs out in one burst, straight
	// through showdown with no street timers.
	g.CheckAllInScenario()

	if g.Phase() != HandEnded {
		t.Fatalf("expected HandEnded after the run-out, got %v", g.Phase())
	}
	state = g.PublicState()
	if len(state.CommunityCards) != 5 {
		t.Errorf("expected a full board, got %d cards", len(state.CommunityCards))
	}
	if state.Winner == nil {
		t.Fatal("expected a showdown winner")
	}
	for _, p := range state.Players {
		if !p.ShowingCards {
			t.Errorf("player %s should have cards exposed in the run-out", p.Name)
		}
	}

	// Winner takes the whole pot.
	var winnerChips, loserChips int
	for _, p := range state.Players {
		if p.ID == state.Winner.ID {
			winnerChips = p.Chips
		} else {
			loserChips = p.Chips
		}
	}
	if winnerChips != 2*StartingChips {
		t.Errorf("expected winner stack %d, got %d", 2*StartingChips, winnerChips)
	}
	if loserChips != 0 {
		t.Errorf("expected loser busted, got %d", loserChips)
	}

	// Only one funded player remains, so the display window resolves into
	// the game ending rather than another hand.
	mClock.Advance(DefaultDisplayTime).MustWait(ctx)

	if g.Phase() != Waiting {
		t.Fatalf("expected Waiting after the game ended, got %v", g.Phase())
	}
	state = g.PublicState()
	for _, p := range state.Players {
		if p.Chips != StartingChips {
			t.Errorf("player %s: expected stack reset to %d, got %d", p.Name, StartingChips, p.Chips)
		}
	}
	if len(state.CommunityCards) != 0 {
		t.Errorf("expected board cleared, got %d cards", len(state.CommunityCards))
	}
}

func TestCheckAllInScenarioIgnoresLiveAction(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 3)

	if err := g.StartGame("p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	g.mu.Lock()
	g.players[0].Chips = 0
	g.players[0].AllIn = true
	g.mu.Unlock()

	// Two players can still act, so nothing fast-forwards.
	g.CheckAllInScenario()

	if g.Phase() != Preflop {
		t.Errorf("expected Preflop, got %v", g.Phase())
	}
	if state := g.PublicState(); len(state.CommunityCards) != 0 {
		t.Errorf("expected no community cards, got %d", len(state.CommunityCards))
	}
}

func TestCheckAllInScenarioNoOpBeforeHand(t *testing.T) {
	t.Parallel()
	g, _ := newTestGame(t, 2)

	g.CheckAllInScenario()
	if g.Phase() != Waiting {
		t.Errorf("expected Waiting, got %v", g.Phase())
	}
}
