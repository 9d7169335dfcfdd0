package tictactoe

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultName   = "Guest"
	maxNameLength = 32
)

// waitingSlot is the single pending joiner. When set, it references a
// session in StateWaiting.
type waitingSlot struct {
	connID    string
	sessionID string
	name      string
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	return name
}

// Join enters connID into matchmaking under name.
func (c *Coordinator) Join(connID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registry.Live(connID) {
		return ErrUnauthorized
	}

	return c.enqueueLocked(connID, normalizeName(name))
}

// enqueueLocked either takes the waiting slot or pairs with its holder. The
// caller holds c.mu.
func (c *Coordinator) enqueueLocked(connID, name string) error {
	if w := c.waiting; w != nil && w.connID == connID {
		if s, ok := c.store.Get(w.sessionID); ok {
			s.mu.Lock()
			s.touch(c.opts.Now())
			s.mu.Unlock()
		}
		c.sendWaiting(w)
		return nil
	}
	if _, seated := c.registry.Seat(connID); seated {
		return ErrAlreadyJoined
	}

	if c.waiting == nil {
		return c.holdLocked(connID, name)
	}

	w := c.waiting
	c.waiting = nil

	s, ok := c.store.Get(w.sessionID)
	if !ok {
		c.opts.Logf("GAMES: Dropped stale waiting slot for %s", w.sessionID)
		return c.holdLocked(connID, name)
	}

	err := c.pairLocked(s, connID, name)
	switch Reason(err) {
	case "":
		return err
	case ReasonUnauthorized:
		// The joiner could not be seated; the holder keeps the slot.
		c.waiting = w
		c.opts.Logf("ERROR: pairing %q into %s failed: %v", name, s.id, err)
		return err
	}

	c.opts.Logf("GAMES: Dropped stale waiting slot for %s", w.sessionID)
	return c.holdLocked(connID, name)
}

func (c *Coordinator) holdLocked(connID, name string) error {
	s := c.store.Create(Participant{ConnID: connID, Name: name}, c.opts.Now())
	if !c.registry.Bind(connID, Seat{SessionID: s.id, Mark: X}) {
		c.store.Delete(s.id)
		c.opts.Logf("ERROR: %q could not be seated in %s", name, s.id)
		return ErrUnauthorized
	}

	c.waiting = &waitingSlot{
		connID:    connID,
		sessionID: s.id,
		name:      name,
	}

	c.sendWaiting(c.waiting)
	c.opts.Observer.SessionCreated(s.id)
	c.opts.Logf("GAMES: %q is waiting in %s", name, s.id)

	return nil
}

func (c *Coordinator) sendWaiting(w *waitingSlot) {
	c.registry.Send(w.connID, WaitForOpponentMessage{
		Type:     KindWaitForOpponent,
		YourRole: X,
		RoomID:   w.sessionID,
		YourName: w.name,
	})
}

func (c *Coordinator) pairLocked(s *Session, connID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.can(evPair) {
		return ErrSessionNotActive
	}
	if !c.registry.Bind(connID, Seat{SessionID: s.id, Mark: O}) {
		return ErrUnauthorized
	}
	if err := s.seatLocked(Participant{ConnID: connID, Name: name}); err != nil {
		c.registry.Unbind(connID, s.id)
		return err
	}
	s.touch(c.opts.Now())

	x, o := s.players[X], s.players[O]
	for _, p := range s.participants() {
		c.registry.Send(p.ConnID, GameStartMessage{
			Type:        KindGameStart,
			PlayerXName: x.Name,
			PlayerOName: o.Name,
			YourRole:    p.Mark,
			CurrentTurn: s.turn,
			RoomID:      s.id,
		})
	}

	c.opts.Observer.SessionStarted(s.id)
	c.opts.Logf("GAMES: %q vs %q started in %s", x.Name, o.Name, s.id)

	return nil
}
