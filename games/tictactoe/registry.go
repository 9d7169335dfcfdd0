package tictactoe

import (
	"sync"
)

// Sender delivers one outbound message to one connection. Send must not
// block; it returns false when the message could not be queued.
type Sender interface {
	Send(msg any) bool
}

// Seat is a connection's membership in a session.
type Seat struct {
	SessionID string
	Mark      Mark
}

type member struct {
	sender Sender
	seat   Seat
}

// Registry maps each live connection to its sender and at most one seat.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*member
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*member),
	}
}

// Register records a live connection. Registering an id twice replaces the
// sender and keeps the seat.
func (r *Registry) Register(id string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.conns[id]; ok {
		m.sender = s
		return
	}
	r.conns[id] = &member{sender: s}
}

// Unregister forgets a connection and returns the seat it held, if any.
// Once it returns, no further message is delivered to that connection.
func (r *Registry) Unregister(id string) (Seat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.conns[id]
	if !ok {
		return Seat{}, false
	}
	delete(r.conns, id)
	return m.seat, m.seat.SessionID != ""
}

func (r *Registry) Live(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.conns[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}

// Seat returns the seat held by a connection.
func (r *Registry) Seat(id string) (Seat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.conns[id]
	if !ok || m.seat.SessionID == "" {
		return Seat{}, false
	}
	return m.seat, true
}

// Bind seats a live connection. It fails if the connection is gone or
// already seated elsewhere.
func (r *Registry) Bind(id string, seat Seat) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.conns[id]
	if !ok {
		return false
	}
	if m.seat.SessionID != "" && m.seat.SessionID != seat.SessionID {
		return false
	}
	m.seat = seat
	return true
}

// Unbind clears a seat, but only if it still points at sessionID.
func (r *Registry) Unbind(id, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.conns[id]; ok && m.seat.SessionID == sessionID {
		m.seat = Seat{}
	}
}

// Send delivers msg to a single connection. The read lock is held across
// the call so that Unregister acts as a delivery barrier.
func (r *Registry) Send(id string, msg any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.conns[id]
	if !ok {
		return false
	}
	return m.sender.Send(msg)
}
