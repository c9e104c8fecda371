// Package game implements the state machine for a single hold'em room:
// lobby and seating, betting rounds, community-card reveal, showdown and
// the per-turn action and post-hand display timers.
//
// A Game instance never performs I/O. The transport layer dispatches
// client events into the public operations and forwards the resulting
// snapshots back out; callers must serialize mutating calls per room.
// The two timers fire on their own goroutines and re-enter the game
// under its lock, guarded by a generation token so a stale firing is a
// no-op.
package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-room/internal/deck"
	"github.com/lox/holdem-room/internal/evaluator"
)

const (
	DefaultMaxSeats      = 9
	DefaultSmallBlind    = 5
	DefaultBigBlind      = 10
	DefaultActionTimeout = 30 * time.Second
	DefaultDisplayTime   = 5 * time.Second
)

// Action is a client-requested betting-round action.
type Action string

const (
	ActionFold      Action = "fold"
	ActionCall      Action = "call"
	ActionRaise     Action = "raise"
	ActionCheck     Action = "check"
	ActionShowCards Action = "show-cards"
)

// handScope holds the transient per-hand result state. It is replaced
// wholesale at each new hand so there is no incremental reset to get
// wrong.
type handScope struct {
	winner  *Player
	showing map[string]struct{}
}

func newHandScope() *handScope {
	return &handScope{showing: make(map[string]struct{})}
}

// Game is the aggregate root for one poker room.
type Game struct {
	mu sync.Mutex

	roomID        string
	maxSeats      int
	smallBlind    int
	bigBlind      int
	actionTimeout time.Duration
	displayTime   time.Duration

	seats        []*Player
	players      []*Player // order is the turn sequence for the current hand
	lobbyPlayers []*LobbyPlayer
	creatorID    string

	deck               *deck.Deck
	communityCards     []deck.Card
	pot                int
	currentBet         int
	currentPlayerIndex int
	dealerIndex        int
	phase              Phase
	hand               *handScope

	clock        quartz.Clock
	rng          *rand.Rand
	logger       *log.Logger
	timerGen     uint64
	actionTimer  *quartz.Timer
	displayTimer *quartz.Timer

	onActionTimeout func(playerID string)
	onNextHand      func()
}

// New creates a game for a freshly opened room. maxSeats <= 0 falls back
// to the default 9-seat table.
func New(roomID string, maxSeats int, opts ...Option) *Game {
	if maxSeats <= 0 {
		maxSeats = DefaultMaxSeats
	}

	g := &Game{
		roomID:        roomID,
		maxSeats:      maxSeats,
		smallBlind:    DefaultSmallBlind,
		bigBlind:      DefaultBigBlind,
		actionTimeout: DefaultActionTimeout,
		displayTime:   DefaultDisplayTime,
		seats:         make([]*Player, maxSeats),
		phase:         Waiting,
		hand:          newHandScope(),
		clock:         quartz.NewReal(),
		logger:        log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.deck = deck.New(g.rng)
	return g
}

// SetActionTimeoutCallback registers the collaborator notification invoked
// after the action timer fires and the auto fold/check has been applied.
// The callback runs outside the game lock.
func (g *Game) SetActionTimeoutCallback(fn func(playerID string)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onActionTimeout = fn
}

// SetNextHandCallback registers a continuation invoked when the post-hand
// display timer fires, replacing the default StartNextHand call. The
// callback runs outside the game lock.
func (g *Game) SetNextHandCallback(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onNextHand = fn
}

// RoomID returns the room identifier.
func (g *Game) RoomID() string {
	return g.roomID
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Empty reports whether no players remain, seated or in the lobby. The
// transport destroys the room when this becomes true.
func (g *Game) Empty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players) == 0 && len(g.lobbyPlayers) == 0
}

// SeatedIDs returns the ids of all seated players in turn order.
func (g *Game) SeatedIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, len(g.players))
	for i, p := range g.players {
		ids[i] = p.ID
	}
	return ids
}

// PlayerIDs returns the ids of everyone in the room, seated and lobby.
func (g *Game) PlayerIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.players)+len(g.lobbyPlayers))
	for _, p := range g.players {
		ids = append(ids, p.ID)
	}
	for _, p := range g.lobbyPlayers {
		ids = append(ids, p.ID)
	}
	return ids
}

// JoinLobby adds a player to the room lobby. The first joiner becomes the
// room creator.
func (g *Game) JoinLobby(playerID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.lobbyPlayers)+len(g.players) >= g.maxSeats {
		return ErrRoomFull
	}
	if g.findLobbyPlayer(playerID) != -1 || g.findPlayer(playerID) != nil {
		return ErrPlayerAlreadyPresent
	}

	if len(g.lobbyPlayers) == 0 && len(g.players) == 0 {
		g.creatorID = playerID
	}

	g.lobbyPlayers = append(g.lobbyPlayers, &LobbyPlayer{ID: playerID, Name: name})
	g.logger.Info("player joined lobby", "player", name, "id", playerID)
	return nil
}

// ClaimSeat promotes a lobby player to a seated player with the starting
// stack and appends them to the turn order.
func (g *Game) ClaimSeat(playerID string, seatIndex int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.findLobbyPlayer(playerID)
	if idx == -1 {
		return ErrNotInLobby
	}
	if seatIndex < 0 || seatIndex >= g.maxSeats || g.seats[seatIndex] != nil {
		return ErrSeatUnavailable
	}

	lp := g.lobbyPlayers[idx]
	p := &Player{
		ID:        lp.ID,
		Name:      lp.Name,
		Chips:     StartingChips,
		SeatIndex: seatIndex,
	}

	g.lobbyPlayers = append(g.lobbyPlayers[:idx], g.lobbyPlayers[idx+1:]...)
	g.seats[seatIndex] = p
	g.players = append(g.players, p)
	g.logger.Info("seat claimed", "player", lp.Name, "seat", seatIndex)
	return nil
}

// RemovePlayer evicts a player from the lobby or their seat. If fewer than
// two seated players remain mid-hand the game ends.
func (g *Game) RemovePlayer(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if idx := g.findLobbyPlayer(playerID); idx != -1 {
		g.lobbyPlayers = append(g.lobbyPlayers[:idx], g.lobbyPlayers[idx+1:]...)
	}

	for i, p := range g.players {
		if p.ID != playerID {
			continue
		}
		g.seats[p.SeatIndex] = nil
		g.players = append(g.players[:i], g.players[i+1:]...)

		// Keep the turn and dealer indexes in range after the eviction.
		if n := len(g.players); n > 0 {
			g.currentPlayerIndex %= n
			g.dealerIndex %= n
		} else {
			g.currentPlayerIndex = 0
			g.dealerIndex = 0
		}
		g.logger.Info("player removed", "player", p.Name, "id", playerID)
		break
	}

	if len(g.players) < 2 && g.phase != Waiting {
		g.endGameLocked()
	}
}

// StartGame begins the first hand. Only the room creator may start, and at
// least two players must be seated.
func (g *Game) StartGame(requesterID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) < 2 {
		return ErrInsufficientPlayers
	}
	if requesterID != g.creatorID {
		return ErrNotAuthorized
	}

	g.dealerIndex = 0
	g.logger.Info("game started", "players", len(g.players))
	return g.startNewHandLocked()
}

// Act applies a betting-round action keyed to the acting player id. The
// engine trusts the caller's identity; turn enforcement is the transport's
// responsibility.
func (g *Game) Act(playerID string, action Action, amount int) error {
	switch action {
	case ActionFold:
		return g.Fold(playerID)
	case ActionCall:
		return g.Call(playerID)
	case ActionRaise:
		return g.Raise(playerID, amount)
	case ActionCheck:
		return g.Check(playerID)
	case ActionShowCards:
		return g.ShowCards(playerID)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidAction, action)
	}
}

// Fold marks the player folded. If exactly one unfolded player remains the
// hand ends immediately and they take the pot.
func (g *Game) Fold(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.findPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	g.foldLocked(p)
	return nil
}

func (g *Game) foldLocked(p *Player) {
	g.clearActionTimerLocked()
	p.Folded = true
	p.HasActed = true
	g.logger.Debug("fold", "player", p.Name)

	var last *Player
	remaining := 0
	for _, other := range g.players {
		if !other.Folded {
			remaining++
			last = other
		}
	}
	if remaining == 1 {
		g.handEndedLocked(last)
	}
}

// Call matches the outstanding bet, going all-in if the stack is short.
func (g *Game) Call(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.findPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	g.clearActionTimerLocked()
	return g.placeBetLocked(p, g.currentBet-p.CurrentBet)
}

// Raise bets amount on top of the room's current bet.
func (g *Game) Raise(playerID string, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.findPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	g.clearActionTimerLocked()
	total := g.currentBet + amount
	return g.placeBetLocked(p, total-p.CurrentBet)
}

// Check passes the action without betting. Valid only when the player has
// already matched the room's current bet.
func (g *Game) Check(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.findPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.CurrentBet != g.currentBet {
		return fmt.Errorf("%w: cannot check facing a bet of %d", ErrInvalidAction, g.currentBet)
	}
	g.clearActionTimerLocked()
	g.checkLocked(p)
	return nil
}

func (g *Game) checkLocked(p *Player) {
	p.HasActed = true
	g.logger.Debug("check", "player", p.Name)
}

// placeBetLocked moves chips into the pot, clamped to the player's stack.
func (g *Game) placeBetLocked(p *Player, amount int) error {
	if p.Folded {
		return fmt.Errorf("%w: player has folded", ErrInvalidAction)
	}

	actual := amount
	if actual > p.Chips {
		actual = p.Chips
	}
	if actual < 0 {
		actual = 0
	}

	p.Chips -= actual
	p.CurrentBet += actual
	g.pot += actual

	if p.Chips == 0 {
		p.AllIn = true
		g.logger.Info("player all-in", "player", p.Name, "bet", p.CurrentBet)
	}
	if p.CurrentBet > g.currentBet {
		g.currentBet = p.CurrentBet
	}
	p.HasActed = true
	g.logger.Debug("bet placed", "player", p.Name, "amount", actual, "pot", g.pot)
	return nil
}

// ShowCards voluntarily reveals a non-folded player's hand during the
// post-hand display window.
func (g *Game) ShowCards(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != HandEnded {
		return fmt.Errorf("%w: can only show cards after the hand has ended", ErrInvalidAction)
	}
	p := g.findPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Folded {
		return fmt.Errorf("%w: folded players cannot show cards", ErrInvalidAction)
	}
	g.hand.showing[playerID] = struct{}{}
	return nil
}

// RoundComplete reports whether the current betting round is finished:
// every player still able to act has acted and matched the room's current
// bet. The dispatcher re-evaluates this after every action.
func (g *Game) RoundComplete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roundCompleteLocked()
}

func (g *Game) roundCompleteLocked() bool {
	for _, p := range g.players {
		if !p.CanAct() {
			continue
		}
		if !p.HasActed || p.CurrentBet != g.currentBet {
			return false
		}
	}
	return true
}

// CheckAllInScenario fast-forwards the hand when every unfolded player is
// all-in: all hands are revealed and the remaining community cards deal in
// one burst up to showdown, bypassing further timers.
func (g *Game) CheckAllInScenario() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkAllInLocked()
}

func (g *Game) checkAllInLocked() {
	if g.phase == Waiting || g.phase == Showdown || g.phase == HandEnded {
		return
	}

	var active []*Player
	canAct := 0
	for _, p := range g.players {
		if p.Folded {
			continue
		}
		active = append(active, p)
		if !p.AllIn {
			canAct++
		}
	}
	if canAct != 0 || len(active) <= 1 {
		return
	}

	g.logger.Info("all players all-in, running out the board", "players", len(active))
	for _, p := range active {
		g.hand.showing[p.ID] = struct{}{}
	}

	for len(g.communityCards) < 5 && g.phase != Showdown {
		switch g.phase {
		case Preflop:
			g.phase = Flop
			if !g.dealCommunityLocked(3) {
				return
			}
		case Flop:
			g.phase = Turn
			if !g.dealCommunityLocked(1) {
				return
			}
		case Turn:
			g.phase = River
			if !g.dealCommunityLocked(1) {
				return
			}
		case River:
			g.phase = Showdown
			g.showdownLocked()
			return
		}
	}

	if len(g.communityCards) == 5 && g.phase != Showdown {
		g.phase = Showdown
		g.showdownLocked()
	}
}

// NextPhase advances the hand to the next street: betting state resets,
// the street's community cards deal (3/1/1) or the river runs showdown.
// The all-in fast-forward is re-checked after dealing and a fresh action
// timer is armed unless the hand resolved.
func (g *Game) NextPhase() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clearActionTimerLocked()
	for _, p := range g.players {
		p.HasActed = false
		p.CurrentBet = 0
	}
	g.currentBet = 0

	switch g.phase {
	case Preflop:
		g.phase = Flop
		if !g.dealCommunityLocked(3) {
			return
		}
	case Flop:
		g.phase = Turn
		if !g.dealCommunityLocked(1) {
			return
		}
	case Turn:
		g.phase = River
		if !g.dealCommunityLocked(1) {
			return
		}
	case River:
		g.phase = Showdown
		g.showdownLocked()
	default:
		return
	}

	g.logger.Info("phase advanced", "phase", g.phase, "board", len(g.communityCards))
	g.checkAllInLocked()

	if g.phase == Flop || g.phase == Turn || g.phase == River {
		g.armActionTimerLocked()
	}
}

// AdvanceTurn moves the action to the next player who can still act,
// scanning forward circularly, and arms their action timer. If the scan
// wraps without finding anyone the index is left unchanged.
func (g *Game) AdvanceTurn() {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.players)
	if n == 0 {
		return
	}

	next := (g.currentPlayerIndex + 1) % n
	for g.players[next].Folded || g.players[next].AllIn {
		next = (next + 1) % n
		if next == g.currentPlayerIndex {
			break
		}
	}
	g.currentPlayerIndex = next
	g.armActionTimerLocked()
}

// StartNextHand clears the display timer and the previous hand's result,
// then either deals the next hand (dealer button advances) or, if at most
// one player still has chips, ends the game.
func (g *Game) StartNextHand() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.startNextHandLocked()
}

func (g *Game) startNextHandLocked() {
	g.clearDisplayTimerLocked()
	g.hand = newHandScope()

	funded := 0
	for _, p := range g.players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded > 1 {
		g.dealerIndex = (g.dealerIndex + 1) % len(g.players)
		if err := g.startNewHandLocked(); err != nil {
			g.logger.Error("failed to start next hand", "error", err)
		}
	} else {
		g.endGameLocked()
	}
}

// startNewHandLocked runs the new-hand setup: fresh deck, cleared board
// and pot, hole cards, blinds and the first action timer.
func (g *Game) startNewHandLocked() error {
	g.phase = Preflop
	g.deck.Reset()
	g.communityCards = nil
	g.pot = 0
	g.currentBet = g.bigBlind
	g.hand = newHandScope()

	for _, p := range g.players {
		p.resetForHand()
	}

	if err := g.dealHoleCardsLocked(); err != nil {
		// Structural fault, not a player error: abort the hand entirely.
		g.logger.Error("hole card deal failed", "error", err)
		g.endGameLocked()
		return err
	}

	g.postBlindsLocked()
	g.armActionTimerLocked()
	return nil
}

// dealHoleCardsLocked deals two cards to each unfolded player, one at a
// time round-robin.
func (g *Game) dealHoleCardsLocked() error {
	for i := 0; i < 2; i++ {
		for _, p := range g.players {
			if p.Folded {
				continue
			}
			card, err := g.deck.Deal()
			if err != nil {
				return err
			}
			p.Hand = append(p.Hand, card)
		}
	}
	return nil
}

// postBlindsLocked posts the small and big blinds relative to the dealer
// button. Blinds do not count as voluntary actions: both blind seats still
// get to act in the preflop round. Heads-up, the small blind acts first.
func (g *Game) postBlindsLocked() {
	n := len(g.players)
	sbIndex := (g.dealerIndex + 1) % n
	bbIndex := (g.dealerIndex + 2) % n

	g.postBlindLocked(g.players[sbIndex], g.smallBlind)
	g.postBlindLocked(g.players[bbIndex], g.bigBlind)
	g.currentBet = g.bigBlind

	if n == 2 {
		g.currentPlayerIndex = sbIndex
	} else {
		g.currentPlayerIndex = (bbIndex + 1) % n
	}
	g.logger.Info("blinds posted",
		"smallBlind", g.players[sbIndex].Name,
		"bigBlind", g.players[bbIndex].Name,
		"pot", g.pot)
}

func (g *Game) postBlindLocked(p *Player, blind int) {
	post := blind
	if post > p.Chips {
		post = p.Chips
	}
	p.Chips -= post
	p.CurrentBet = post
	g.pot += post
	if p.Chips == 0 {
		p.AllIn = true
	}
	p.HasActed = false
}

// showdownLocked ranks every unfolded player's best hand from hole plus
// community cards and declares the top hand the winner. The sort is
// stable, so an exact tie resolves to the earlier player in turn order;
// the whole pot goes to a single winner (no side pots or splits).
func (g *Game) showdownLocked() {
	type ranked struct {
		player *Player
		rank   evaluator.HandRank
	}

	var contenders []ranked
	for _, p := range g.players {
		if p.Folded {
			continue
		}
		cards := make([]deck.Card, 0, len(p.Hand)+len(g.communityCards))
		cards = append(cards, p.Hand...)
		cards = append(cards, g.communityCards...)
		contenders = append(contenders, ranked{player: p, rank: evaluator.Evaluate(cards)})
		g.hand.showing[p.ID] = struct{}{}
	}
	if len(contenders) == 0 {
		return
	}

	sort.SliceStable(contenders, func(i, j int) bool {
		return evaluator.Compare(contenders[i].rank, contenders[j].rank) > 0
	})

	winner := contenders[0]
	g.logger.Info("showdown",
		"winner", winner.player.Name,
		"hand", winner.rank.Description(),
		"pot", g.pot)
	g.handEndedLocked(winner.player)
}

// handEndedLocked awards the whole pot to the winner and opens the
// display window before the next hand.
func (g *Game) handEndedLocked(winner *Player) {
	g.clearActionTimerLocked()
	g.phase = HandEnded
	g.hand.winner = winner
	winner.Chips += g.pot
	g.logger.Info("hand ended", "winner", winner.Name, "won", g.pot)
	g.pot = 0
	g.armDisplayTimerLocked()
}

// endGameLocked resets the room to waiting: every stack back to the
// starting amount, all hand state cleared, timers cancelled.
func (g *Game) endGameLocked() {
	g.clearActionTimerLocked()
	g.clearDisplayTimerLocked()
	g.phase = Waiting
	g.pot = 0
	g.currentBet = 0
	g.communityCards = nil
	g.hand = newHandScope()
	for _, p := range g.players {
		p.resetForHand()
		p.Chips = StartingChips
	}
	g.logger.Info("game ended, room back to waiting")
}

func (g *Game) dealCommunityLocked(count int) bool {
	for i := 0; i < count; i++ {
		card, err := g.deck.Deal()
		if err != nil {
			g.logger.Error("community card deal failed", "error", err)
			g.endGameLocked()
			return false
		}
		g.communityCards = append(g.communityCards, card)
	}
	return true
}

func (g *Game) findPlayer(playerID string) *Player {
	for _, p := range g.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (g *Game) findLobbyPlayer(playerID string) int {
	for i, p := range g.lobbyPlayers {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}
