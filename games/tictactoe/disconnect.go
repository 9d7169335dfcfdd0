package tictactoe

// Cause explains why a session was destroyed.
type Cause string

const (
	CauseDisconnect Cause = "disconnect"
	CauseExpired    Cause = "expired"
)

// Disconnect handles the loss of connID. It runs under the waiting-slot
// mutex so that tearing down the session and requeueing the survivor are
// indivisible with respect to other joins.
func (c *Coordinator) Disconnect(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seat, seated := c.registry.Unregister(connID)

	if w := c.waiting; w != nil && w.connID == connID {
		c.waiting = nil
		if s, ok := c.store.Get(w.sessionID); ok {
			s.mu.Lock()
			s.destroyed = true
			s.mu.Unlock()
			c.store.Delete(w.sessionID)
			c.opts.Observer.SessionDestroyed(w.sessionID, CauseDisconnect)
		}
		c.opts.Logf("GAMES: %q left the queue (%s)", w.name, w.sessionID)
		return
	}

	if !seated {
		return
	}

	s, ok := c.store.Get(seat.SessionID)
	if !ok {
		return
	}

	s.mu.Lock()
	gone, member := s.member(connID)
	if !member || s.destroyed {
		s.mu.Unlock()
		return
	}
	departed := *gone
	started := s.state != StateWaiting

	var survivor *Participant
	if r, ok := s.opponent(connID); ok {
		p := *r
		survivor = &p
	}
	s.destroyed = true
	s.mu.Unlock()

	c.store.Delete(s.id)
	c.opts.Observer.SessionDestroyed(s.id, CauseDisconnect)
	c.opts.Logf("GAMES: %q disconnected from %s", departed.Name, s.id)

	if survivor == nil {
		return
	}
	c.registry.Unbind(survivor.ConnID, s.id)

	if !started || !c.registry.Live(survivor.ConnID) {
		return
	}

	c.registry.Send(survivor.ConnID, OpponentDisconnectedMessage{
		Type:    KindOpponentDisconnected,
		Message: departed.Name + " disconnected. Game ended.",
		Name:    departed.Name,
	})

	if err := c.enqueueLocked(survivor.ConnID, survivor.Name); err != nil {
		c.opts.Logf("ERROR: requeue of %q failed: %v", survivor.Name, err)
		return
	}
	c.opts.Observer.Requeued(s.id)
}
