package deck

import (
	"errors"
	rand "math/rand/v2"
	"time"

	"github.com/lox/holdem-room/internal/randutil"
)

// ErrDeckExhausted is returned when a deal is attempted on an empty deck.
// A full hand draws at most 23 cards (9 players x 2 hole cards + 5 board),
// so seeing this error means the caller's state machine is broken.
var ErrDeckExhausted = errors.New("deck: no cards remaining")

// Deck represents a deck of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a new shuffled 52-card deck using the provided RNG.
// Pass nil to seed from the wall clock.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = randutil.New(time.Now().UnixNano())
	}
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.build()
	d.Shuffle()
	return d
}

// build fills the deck with the 52 unique (suit, rank) cards.
func (d *Deck) build() {
	d.cards = d.cards[:0]
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Shuffle performs an in-place Fisher-Yates permutation of the remaining cards.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// DealN deals n cards from the deck.
func (d *Deck) DealN(n int) ([]Card, error) {
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := d.Deal()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Reset restores the deck to a full 52-card deck and shuffles it
func (d *Deck) Reset() {
	d.build()
	d.Shuffle()
}
