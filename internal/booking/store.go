package booking

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an untouched session survives before it is swept.
const DefaultTTL = 30 * time.Minute

var ErrSessionNotFound = errors.New("booking session not found")

// Store keeps live booking sessions in memory, keyed by session id.
// Sessions are process-local; losing the process abandons them, which is
// fine because nothing is persisted until confirmation.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{sessions: make(map[string]*Session), ttl: ttl}
}

// Put registers a new session under a fresh id and returns the id.
func (st *Store) Put(s *Session) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	id := uuid.NewString()
	s.ID = id
	st.sessions[id] = s
	return id
}

// Get returns the session with the given id if it belongs to userID and has
// not expired. A foreign or expired session reads as not found.
func (st *Store) Get(id string, userID uint64) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if time.Since(s.CreatedAt) > st.ttl {
		delete(st.sessions, id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session, either after a successful confirmation or on
// explicit abandonment.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// sweepLocked evicts expired sessions. Called opportunistically on Put so
// the store needs no background goroutine.
func (st *Store) sweepLocked() {
	now := time.Now()
	for id, s := range st.sessions {
		if now.Sub(s.CreatedAt) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
