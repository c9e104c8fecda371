package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-room/internal/game"
)

// phaseAdvanceDelay is the pause between a betting round completing and
// the next street dealing, so clients can render the action first.
const phaseAdvanceDelay = time.Second

// Room pairs one game instance with the dispatch loop that drives it.
// Every mutating sequence on the room (a client action plus its
// round-completion continuation, or a timer firing) runs under the room
// mutex, so rooms are serialized independently of each other.
type Room struct {
	mu     sync.Mutex
	code   string
	game   *game.Game
	server *Server
	logger *log.Logger
	clock  quartz.Clock
}

func newRoom(code string, g *game.Game, server *Server, logger *log.Logger, clock quartz.Clock) *Room {
	r := &Room{
		code:   code,
		game:   g,
		server: server,
		logger: logger.WithPrefix("room").With("room", code),
		clock:  clock,
	}

	// The engine notifies us on timer-driven auto actions; we broadcast
	// and continue the state machine exactly as for a client action.
	g.SetActionTimeoutCallback(func(playerID string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.logger.Info("action timer expired", "player", playerID)
		r.broadcastStateLocked()
		r.continueAfterActionLocked()
	})

	// The display timer hands control back here so the broadcast cadence
	// stays with the transport.
	g.SetNextHandCallback(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.game.StartNextHand()
		r.broadcastStateLocked()
	})

	return r
}

// Code returns the room's join code.
func (r *Room) Code() string {
	return r.code
}

// continueAfterActionLocked runs the dispatcher side of the state
// machine after any applied action: advance the turn, or when the round
// is complete, fast-forward any all-in runout and schedule the next
// street.
func (r *Room) continueAfterActionLocked() {
	if r.game.Phase() == game.HandEnded || r.game.Phase() == game.Waiting {
		// The display timer (or nothing) drives what happens next.
		return
	}

	if r.game.RoundComplete() {
		r.game.CheckAllInScenario()
		r.broadcastStateLocked()
		r.schedulePhaseAdvanceLocked()
	} else {
		r.game.AdvanceTurn()
		r.broadcastStateLocked()
	}
}

func (r *Room) schedulePhaseAdvanceLocked() {
	if r.game.Phase() == game.HandEnded || r.game.Phase() == game.Waiting {
		return
	}
	r.clock.AfterFunc(phaseAdvanceDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.game.NextPhase()
		r.broadcastStateLocked()
	})
}

// broadcastStateLocked pushes a game-updated frame to everyone in the
// room: seated players get their private view, lobby members the public
// state.
func (r *Room) broadcastStateLocked() {
	r.broadcastLocked(MessageTypeGameUpdated)
}

func (r *Room) broadcastLocked(msgType MessageType) {
	for _, playerID := range r.game.PlayerIDs() {
		conn := r.server.connection(playerID)
		if conn == nil {
			continue
		}

		var state any
		if view, err := r.game.View(playerID); err == nil {
			state = view
		} else {
			state = r.game.PublicState()
		}

		msg, err := NewMessage(msgType, GameStateData{GameState: state})
		if err != nil {
			r.logger.Error("failed to create state message", "error", err)
			continue
		}
		_ = conn.SendMessage(msg)
	}
}

// broadcastEventLocked sends an already-built frame to everyone in the
// room except the given connection id (empty to send to everyone).
func (r *Room) broadcastEventLocked(msg *Message, exceptID string) {
	for _, playerID := range r.game.PlayerIDs() {
		if playerID == exceptID {
			continue
		}
		if conn := r.server.connection(playerID); conn != nil {
			_ = conn.SendMessage(msg)
		}
	}
}
