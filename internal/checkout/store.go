package checkout

import (
	"sync"
	"time"
)

// Store keeps live checkout sessions in memory. Sessions are working
// state, not records: nothing here survives a restart, and a sweep drops
// sessions idle past their TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// SweepExpired removes sessions idle longer than the TTL, except those
// with a submit in flight. Returns how many were dropped.
func (st *Store) SweepExpired(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	dropped := 0
	for id, s := range st.sessions {
		if s.State() == StateSubmitting {
			continue
		}
		if now.Sub(s.UpdatedOn()) > st.ttl {
			delete(st.sessions, id)
			dropped++
		}
	}
	return dropped
}
