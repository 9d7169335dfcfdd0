// Package tictactoe pairs anonymous participants into two-party sessions and
// keeps each session's board, turn and lifecycle consistent under concurrent
// requests and abrupt disconnects.
//
// Locking order, outermost first: the coordinator's waiting-slot mutex, the
// Store, a Session, the Registry. Outbound messages are handed to a
// non-blocking Sender while the owning Session is locked, so each
// participant observes a session's updates in commit order.
package tictactoe

import (
	"sync"
	"time"
)

// ResultPolicy decides how client game-over reports are treated.
type ResultPolicy int

const (
	// TrustReports accepts a participant's reported winner as-is.
	TrustReports ResultPolicy = iota
	// VerifyReports accepts a report only if it matches the board.
	VerifyReports
)

type Options struct {
	ResultPolicy ResultPolicy

	// RejectFeedback sends a request-rejected message to the offending
	// connection instead of discarding silently.
	RejectFeedback bool

	// IdleTimeout bounds how long a session may go without activity before
	// Reap destroys it. Zero disables eviction.
	IdleTimeout time.Duration

	Observer Observer
	Logf     func(format string, args ...any)
	Now      func() time.Time
}

type handlerFunc func(c *Coordinator, connID string, msg ClientMessage) error

// Coordinator is the session coordinator: matchmaking queue, session store,
// connection registry and the handlers that mutate them.
type Coordinator struct {
	// mu is the waiting-slot domain. Operations that touch the slot hold it
	// for their whole check-then-act sequence.
	mu      sync.Mutex
	waiting *waitingSlot

	store    *Store
	registry *Registry
	routes   map[string]handlerFunc

	opts Options
}

func New(opts Options) *Coordinator {
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Coordinator{
		store:    NewStore(),
		registry: NewRegistry(),
		opts:     opts,
	}
	c.registerRoutes()

	return c
}

// Connect registers a live connection.
func (c *Coordinator) Connect(connID string, s Sender) {
	c.registry.Register(connID, s)
}

// Session returns a snapshot of a live session.
func (c *Coordinator) Session(id string) (Snapshot, bool) {
	s, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, false
	}
	return s.Snapshot(), true
}

// SeatOf returns the seat held by a connection.
func (c *Coordinator) SeatOf(connID string) (Seat, bool) {
	return c.registry.Seat(connID)
}

// Stats is a point-in-time census.
type Stats struct {
	Connections int  `json:"connections"`
	Waiting     int  `json:"waiting"`
	Active      int  `json:"active"`
	Finished    int  `json:"finished"`
	SlotHeld    bool `json:"slotHeld"`
}

func (c *Coordinator) Stats() Stats {
	st := Stats{
		Connections: c.registry.Len(),
	}

	c.mu.Lock()
	st.SlotHeld = c.waiting != nil
	c.mu.Unlock()

	for _, s := range c.store.All() {
		s.mu.Lock()
		switch s.state {
		case StateWaiting:
			st.Waiting++
		case StateActive:
			st.Active++
		case StateFinished:
			st.Finished++
		}
		s.mu.Unlock()
	}

	return st
}

// broadcastLocked sends msg to every participant of s, X first. The caller
// holds s.mu.
func (c *Coordinator) broadcastLocked(s *Session, msg any) {
	for _, p := range s.participants() {
		c.registry.Send(p.ConnID, msg)
	}
}

// lookup returns a live session.
func (c *Coordinator) lookup(id string) (*Session, error) {
	s, ok := c.store.Get(id)
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// SubmitMove places mark at index on behalf of connID.
func (c *Coordinator) SubmitMove(connID, sessionID string, mark Mark, index int) error {
	s, err := c.lookup(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateMoveLocked(connID, mark, index); err != nil {
		return err
	}
	if err := s.applyMoveLocked(mark, index); err != nil {
		return err
	}
	s.touch(c.opts.Now())

	c.broadcastLocked(s, MoveMadeMessage{
		Type:     KindMoveMade,
		Index:    index,
		Player:   mark,
		NextTurn: s.turn,
	})
	c.opts.Observer.MoveApplied(s.id, mark, index)

	if winner, done := s.board.Outcome(); done {
		c.finishLocked(s, winner)
	}

	return nil
}

// ReportGameOver handles a participant's own evaluation of the round.
func (c *Coordinator) ReportGameOver(connID, sessionID string, winner Outcome) error {
	s, err := c.lookup(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateReportLocked(connID, winner, c.opts.ResultPolicy); err != nil {
		return err
	}
	s.touch(c.opts.Now())
	c.finishLocked(s, winner)

	return nil
}

func (c *Coordinator) finishLocked(s *Session, winner Outcome) {
	if err := s.finishLocked(winner); err != nil {
		return
	}

	c.broadcastLocked(s, GameFinishedMessage{
		Type:   KindGameFinished,
		Winner: winner,
	})
	c.opts.Observer.GameFinished(s.id, winner)
	c.opts.Logf("GAMES: %s finished, winner %s", s.id, winner)
}

// RequestReset clears the board for a new round. Only X may reset.
func (c *Coordinator) RequestReset(connID, sessionID string) error {
	s, err := c.lookup(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateResetLocked(connID); err != nil {
		return err
	}
	if err := s.resetLocked(); err != nil {
		return err
	}
	s.touch(c.opts.Now())

	c.broadcastLocked(s, GameResetMessage{
		Type: KindGameReset,
		Turn: s.turn,
	})
	c.opts.Observer.GameReset(s.id)
	c.opts.Logf("GAMES: %s reset by %s", s.id, s.players[X].Name)

	return nil
}
