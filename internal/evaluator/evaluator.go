// Package evaluator ranks poker hands of 5-7 cards into one of the ten
// standard categories and compares ranked hands by category then kickers.
package evaluator

import (
	"sort"

	"github.com/lox/holdem-room/internal/deck"
)

// Category is a hand category, ordered so that a higher value always beats
// a lower one.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the display name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "?"
	}
}

// HandRank is the result of evaluating a set of cards. Kickers are ordered
// by decreasing priority and break ties within a category.
type HandRank struct {
	Category Category `json:"category"`
	Kickers  []int    `json:"kickers"`
}

// Description returns the display name of the ranked category.
func (h HandRank) Description() string {
	return h.Category.String()
}

// Evaluate ranks the given cards (hole cards plus board, 5-7 cards).
// Fewer than 5 cards rank as a bare high card with no kickers.
func Evaluate(cards []deck.Card) HandRank {
	if len(cards) < 5 {
		return HandRank{Category: HighCard, Kickers: []int{}}
	}

	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})

	flush := hasFlush(sorted)
	straight := hasStraight(sorted)
	groups := groupByRank(sorted)

	switch {
	case flush && straight:
		if sorted[0].Value() == 14 && sorted[1].Value() == 13 {
			return HandRank{Category: RoyalFlush, Kickers: []int{}}
		}
		return HandRank{Category: StraightFlush, Kickers: []int{sorted[0].Value()}}

	case len(groups[0]) == 4:
		return HandRank{Category: FourOfAKind, Kickers: []int{groups[0][0].Value(), groups[1][0].Value()}}

	case len(groups[0]) == 3 && len(groups[1]) == 2:
		return HandRank{Category: FullHouse, Kickers: []int{groups[0][0].Value(), groups[1][0].Value()}}

	case flush:
		return HandRank{Category: Flush, Kickers: topValues(sorted, 5)}

	case straight:
		return HandRank{Category: Straight, Kickers: []int{sorted[0].Value()}}

	case len(groups[0]) == 3:
		kickers := []int{groups[0][0].Value()}
		kickers = append(kickers, groupHighs(groups[1:], 2)...)
		return HandRank{Category: ThreeOfAKind, Kickers: kickers}

	case len(groups[0]) == 2 && len(groups[1]) == 2:
		kickers := []int{groups[0][0].Value(), groups[1][0].Value()}
		kickers = append(kickers, groupHighs(groups[2:], 1)...)
		return HandRank{Category: TwoPair, Kickers: kickers}

	case len(groups[0]) == 2:
		kickers := []int{groups[0][0].Value()}
		kickers = append(kickers, groupHighs(groups[1:], 3)...)
		return HandRank{Category: OnePair, Kickers: kickers}

	default:
		return HandRank{Category: HighCard, Kickers: topValues(sorted, 5)}
	}
}

// Compare returns >0 if a beats b, <0 if b beats a, 0 on an exact tie.
// Categories compare first; within a category kickers compare left to
// right with a missing kicker treated as 0.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	n := len(a.Kickers)
	if len(b.Kickers) > n {
		n = len(b.Kickers)
	}
	for i := 0; i < n; i++ {
		var ka, kb int
		if i < len(a.Kickers) {
			ka = a.Kickers[i]
		}
		if i < len(b.Kickers) {
			kb = b.Kickers[i]
		}
		if ka != kb {
			return ka - kb
		}
	}
	return 0
}

// hasFlush reports whether at least 5 cards share one suit.
func hasFlush(cards []deck.Card) bool {
	counts := make(map[deck.Suit]int)
	for _, c := range cards {
		counts[c.Suit]++
		if counts[c.Suit] >= 5 {
			return true
		}
	}
	return false
}

// hasStraight reports whether the distinct values contain 5 consecutive
// descending values, counting the ace-low wheel (A-5-4-3-2) as a straight.
func hasStraight(sorted []deck.Card) bool {
	seen := make(map[int]bool)
	values := make([]int, 0, len(sorted))
	for _, c := range sorted {
		if !seen[c.Value()] {
			seen[c.Value()] = true
			values = append(values, c.Value())
		}
	}

	for i := 0; i+5 <= len(values); i++ {
		consecutive := true
		for j := 1; j < 5; j++ {
			if values[i+j] != values[i+j-1]-1 {
				consecutive = false
				break
			}
		}
		if consecutive {
			return true
		}
	}

	// Wheel: ace counts low
	return seen[14] && seen[5] && seen[4] && seen[3] && seen[2]
}

// groupByRank groups cards sharing a value and orders the groups by size
// descending then value descending. The resulting order is exactly the
// kicker priority for the pair/trips/quads categories.
func groupByRank(cards []deck.Card) [][]deck.Card {
	byValue := make(map[int][]deck.Card)
	for _, c := range cards {
		byValue[c.Value()] = append(byValue[c.Value()], c)
	}

	groups := make([][]deck.Card, 0, len(byValue))
	for _, g := range byValue {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0].Value() > groups[j][0].Value()
	})
	return groups
}

// topValues returns the values of the first n cards.
func topValues(sorted []deck.Card, n int) []int {
	if n > len(sorted) {
		n = len(sorted)
	}
	values := make([]int, n)
	for i := 0; i < n; i++ {
		values[i] = sorted[i].Value()
	}
	return values
}

// groupHighs returns the top value of each of the first n groups.
func groupHighs(groups [][]deck.Card, n int) []int {
	if n > len(groups) {
		n = len(groups)
	}
	values := make([]int, n)
	for i := 0; i < n; i++ {
		values[i] = groups[i][0].Value()
	}
	return values
}
