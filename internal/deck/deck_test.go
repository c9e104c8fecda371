package deck

import (
	"errors"
	"testing"

	"github.com/lox/holdem-room/internal/randutil"
)

func TestNewDeckHas52DistinctCards(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(1))

	if d.CardsRemaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.CardsRemaining())
	}

	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		card, err := d.Deal()
		if err != nil {
			t.Fatalf("deal %d failed: %v", i, err)
		}
		if seen[card] {
			t.Errorf("duplicate card dealt: %s", card)
		}
		seen[card] = true
	}

	if len(seen) != 52 {
		t.Errorf("expected 52 distinct cards, got %d", len(seen))
	}
}

func TestDealPastExhaustion(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(1))

	if _, err := d.DealN(52); err != nil {
		t.Fatalf("dealing full deck failed: %v", err)
	}

	_, err := d.Deal()
	if !errors.Is(err, ErrDeckExhausted) {
		t.Errorf("expected ErrDeckExhausted, got %v", err)
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()
	d1 := New(randutil.New(42))
	d2 := New(randutil.New(42))

	for i := 0; i < 52; i++ {
		c1, _ := d1.Deal()
		c2, _ := d2.Deal()
		if c1 != c2 {
			t.Fatalf("card %d differs between identically seeded decks: %s vs %s", i, c1, c2)
		}
	}

	d3 := New(randutil.New(43))
	d4 := New(randutil.New(42))
	same := true
	for i := 0; i < 52; i++ {
		c3, _ := d3.Deal()
		c4, _ := d4.Deal()
		if c3 != c4 {
			same = false
			break
		}
	}
	if same {
		t.Error("differently seeded decks dealt identical sequences")
	}
}

func TestResetRestoresFullDeck(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(7))

	if _, err := d.DealN(23); err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	if d.CardsRemaining() != 29 {
		t.Fatalf("expected 29 remaining, got %d", d.CardsRemaining())
	}

	d.Reset()
	if d.CardsRemaining() != 52 {
		t.Errorf("expected 52 after reset, got %d", d.CardsRemaining())
	}
}

func TestDealNExhaustion(t *testing.T) {
	t.Parallel()
	d := New(randutil.New(9))

	if _, err := d.DealN(50); err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	if _, err := d.DealN(3); !errors.Is(err, ErrDeckExhausted) {
		t.Errorf("expected ErrDeckExhausted, got %v", err)
	}
}
