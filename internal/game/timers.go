package game

// Timer handling. Both timers are owned by the Game and fire on clock
// goroutines; every firing carries the generation token captured when it
// was armed and is a no-op if any arm or cancel has bumped the token
// since. Every mutating operation cancels the pending action timer before
// touching other state.

// armActionTimerLocked starts the per-turn budget for the current player.
// No timer is armed when the current player cannot act.
func (g *Game) armActionTimerLocked() {
	g.clearActionTimerLocked()

	if g.currentPlayerIndex < 0 || g.currentPlayerIndex >= len(g.players) {
		return
	}
	p := g.players[g.currentPlayerIndex]
	if !p.CanAct() {
		return
	}

	gen := g.timerGen
	g.actionTimer = g.clock.AfterFunc(g.actionTimeout, func() {
		g.actionTimerFired(gen)
	})
}

func (g *Game) clearActionTimerLocked() {
	g.timerGen++
	if g.actionTimer != nil {
		g.actionTimer.Stop()
		g.actionTimer = nil
	}
}

// actionTimerFired applies the auto action for a player whose turn budget
// elapsed: fold if they face an outstanding bet, otherwise check. The
// collaborator is then notified so it can broadcast and continue the
// state machine exactly as if the action had arrived from the client.
func (g *Game) actionTimerFired(gen uint64) {
	g.mu.Lock()
	if gen != g.timerGen {
		g.mu.Unlock()
		return
	}
	g.actionTimer = nil

	if g.currentPlayerIndex < 0 || g.currentPlayerIndex >= len(g.players) {
		g.mu.Unlock()
		return
	}
	p := g.players[g.currentPlayerIndex]
	if !p.CanAct() {
		g.mu.Unlock()
		return
	}

	playerID := p.ID
	if p.CurrentBet < g.currentBet {
		g.logger.Info("action timeout, auto-folding", "player", p.Name)
		g.foldLocked(p)
	} else {
		g.logger.Info("action timeout, auto-checking", "player", p.Name)
		g.clearActionTimerLocked()
		g.checkLocked(p)
	}

	cb := g.onActionTimeout
	g.mu.Unlock()

	if cb != nil {
		cb(playerID)
	}
}

// armDisplayTimerLocked starts the post-hand result display window.
func (g *Game) armDisplayTimerLocked() {
	g.clearDisplayTimerLocked()

	gen := g.timerGen
	g.displayTimer = g.clock.AfterFunc(g.displayTime, func() {
		g.displayTimerFired(gen)
	})
}

func (g *Game) clearDisplayTimerLocked() {
	g.timerGen++
	if g.displayTimer != nil {
		g.displayTimer.Stop()
		g.displayTimer = nil
	}
}

// displayTimerFired hands control to the next-hand continuation if one is
// registered, otherwise deals the next hand directly.
func (g *Game) displayTimerFired(gen uint64) {
	g.mu.Lock()
	if gen != g.timerGen {
		g.mu.Unlock()
		return
	}
	g.displayTimer = nil
	g.timerGen++

	if cb := g.onNextHand; cb != nil {
		g.mu.Unlock()
		cb()
		return
	}

	g.startNextHandLocked()
	g.mu.Unlock()
}
