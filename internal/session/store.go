package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps live sessions for the web daemon, keyed by session ID.
// Sessions are transient: they are dropped on Finish, on expiry, or
// when the process exits. Nothing is persisted.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

type entry struct {
	session *Session
	touched time.Time
}

// NewStore creates a store whose sessions expire after ttl of
// inactivity. Expired entries are reaped lazily on access.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put registers a new session and returns its generated ID.
func (st *Store) Put(s *Session) string {
	id := uuid.NewString()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.reapLocked()
	st.sessions[id] = &entry{session: s, touched: st.now()}
	return id
}

// Get returns the session for id, or nil if it is unknown or expired.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.reapLocked()
	e, ok := st.sessions[id]
	if !ok {
		return nil
	}
	e.touched = st.now()
	return e.session
}

// Delete drops the session for id, if present.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.reapLocked()
	return len(st.sessions)
}

func (st *Store) reapLocked() {
	if st.ttl <= 0 {
		return
	}
	cutoff := st.now().Add(-st.ttl)
	for id, e := range st.sessions {
		if e.touched.Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}
