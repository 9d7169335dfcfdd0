package tictactoe

import (
	"sync"
	"time"
)

// State is a session's lifecycle state.
type State int

const (
	StateWaiting State = iota
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

type event int

const (
	evPair event = iota
	evMove
	evFinish
	evReset
)

// transitions is the complete lifecycle. An event missing from the current
// state's row is illegal in that state.
var transitions = map[State]map[event]State{
	StateWaiting: {
		evPair: StateActive,
	},
	StateActive: {
		evMove:   StateActive,
		evFinish: StateFinished,
		evReset:  StateActive,
	},
	StateFinished: {
		evReset: StateActive,
	},
}

// Participant is one seated connection.
type Participant struct {
	ConnID string
	Name   string
	Mark   Mark
}

// Session is one pairing and its shared game state. All fields are guarded
// by mu; the Store owns the Session and nothing outside this package holds
// a pointer to it.
type Session struct {
	mu sync.Mutex

	id        string
	players   map[Mark]*Participant
	board     Board
	turn      Mark
	state     State
	winner    Outcome
	createdAt time.Time

	lastActive time.Time
	destroyed  bool
}

func newSession(id string, x Participant, now time.Time) *Session {
	x.Mark = X
	return &Session{
		id:         id,
		players:    map[Mark]*Participant{X: &x},
		turn:       X,
		state:      StateWaiting,
		createdAt:  now,
		lastActive: now,
	}
}

// can reports whether ev is legal in the current state.
func (s *Session) can(ev event) bool {
	_, ok := transitions[s.state][ev]
	return ok
}

// fire applies ev to the lifecycle.
func (s *Session) fire(ev event) error {
	next, ok := transitions[s.state][ev]
	if !ok {
		return ErrSessionNotActive
	}
	s.state = next
	return nil
}

func (s *Session) touch(now time.Time) {
	s.lastActive = now
}

// seatLocked binds the second participant.
func (s *Session) seatLocked(o Participant) error {
	if err := s.fire(evPair); err != nil {
		return err
	}
	o.Mark = O
	s.players[O] = &o
	return nil
}

// member returns the participant bound to connID.
func (s *Session) member(connID string) (*Participant, bool) {
	for _, p := range s.players {
		if p.ConnID == connID {
			return p, true
		}
	}
	return nil, false
}

// opponent returns the participant other than connID, if seated.
func (s *Session) opponent(connID string) (*Participant, bool) {
	for _, p := range s.players {
		if p.ConnID != connID {
			return p, true
		}
	}
	return nil, false
}

// participants returns the seated participants in X, O order.
func (s *Session) participants() []*Participant {
	out := make([]*Participant, 0, 2)
	for _, m := range [...]Mark{X, O} {
		if p, ok := s.players[m]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) applyMoveLocked(mark Mark, index int) error {
	if err := s.fire(evMove); err != nil {
		return err
	}
	s.board[index] = mark
	s.turn = mark.Other()
	return nil
}

func (s *Session) finishLocked(winner Outcome) error {
	if err := s.fire(evFinish); err != nil {
		return err
	}
	s.winner = winner
	return nil
}

func (s *Session) resetLocked() error {
	if err := s.fire(evReset); err != nil {
		return err
	}
	s.board = Board{}
	s.turn = X
	s.winner = NoOutcome
	return nil
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID         string
	State      State
	Board      Board
	Turn       Mark
	Winner     Outcome
	PlayerX    Participant
	PlayerO    Participant // zero while waiting
	CreatedAt  time.Time
	LastActive time.Time
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		State:      s.state,
		Board:      s.board,
		Turn:       s.turn,
		Winner:     s.winner,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
	if p, ok := s.players[X]; ok {
		snap.PlayerX = *p
	}
	if p, ok := s.players[O]; ok {
		snap.PlayerO = *p
	}
	return snap
}
