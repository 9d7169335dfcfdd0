package tictactoe

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Store owns every live session, keyed by id. Ids are allocated
// monotonically and never reused.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextID   uint64
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create allocates a waiting session with x seated as X.
func (st *Store) Create(x Participant, now time.Time) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.nextID++
	s := newSession("game-"+strconv.FormatUint(st.nextID, 10), x, now)
	st.sessions[s.id] = s
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session and reports whether it was present.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.sessions)
}

// All returns the live sessions ordered by id allocation.
func (st *Store) All() []*Session {
	st.mu.RLock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if len(out[i].id) != len(out[j].id) {
			return len(out[i].id) < len(out[j].id)
		}
		return out[i].id < out[j].id
	})
	return out
}
