package game

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Option configures a Game at construction time.
type Option func(*Game)

// WithClock sets the clock used for the action and display timers.
// Tests inject quartz.NewMock; production defaults to the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) {
		g.clock = clock
	}
}

// WithRNG sets the RNG used for deck shuffling, for deterministic hands in
// tests.
func WithRNG(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithBlinds sets the small and big blind amounts.
func WithBlinds(smallBlind, bigBlind int) Option {
	return func(g *Game) {
		g.smallBlind = smallBlind
		g.bigBlind = bigBlind
	}
}

// WithActionTimeout sets the per-turn action budget.
func WithActionTimeout(d time.Duration) Option {
	return func(g *Game) {
		g.actionTimeout = d
	}
}

// WithDisplayTime sets the post-hand result display budget.
func WithDisplayTime(d time.Duration) Option {
	return func(g *Game) {
		g.displayTime = d
	}
}

// WithLogger sets the logger. The game logs nothing by default.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		g.logger = logger.WithPrefix("game").With("room", g.roomID)
	}
}
