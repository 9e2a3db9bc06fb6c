package service

import (
	"sync"

	"github.com/google/uuid"
)

// ChatSession is the per-conversation state the mediator operates on. One
// session per user at a time; constructed fresh on first contact and on
// reset, never shared across users. All mutation happens under the
// mediator's turn guard.
type ChatSession struct {
	ID     string
	UserID int64

	mu         sync.Mutex
	queue      *RecommendationQueue
	userTurns  int
	generation int
	inFlight   bool
}

// NewChatSession creates a fresh session for a user
func NewChatSession(userID int64) *ChatSession {
	return &ChatSession{
		ID:     uuid.NewString(),
		UserID: userID,
		queue:  NewRecommendationQueue(),
	}
}

// BeginTurn claims the session for one turn. Returns false while another
// turn is still in flight; the caller must reject the input at the
// boundary rather than queue it.
func (s *ChatSession) BeginTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

// EndTurn releases the turn guard
func (s *ChatSession) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}

// Queue returns the session's current recommendation queue. A turn
// captures the pointer once at its start; after a reset the captured
// queue is orphaned and further mutation through it is harmless.
func (s *ChatSession) Queue() *RecommendationQueue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue
}

// UserTurns returns how many user turns this session has consumed
func (s *ChatSession) UserTurns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userTurns
}

// CountTurn records one user turn
func (s *ChatSession) CountTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userTurns++
}

// Generation returns the session's reset generation. A turn captures the
// generation when it starts and discards its result if the session was
// reset while the turn was in flight.
func (s *ChatSession) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Reset discards all session state: queue, shown and rejected sets, turn
// counter. The queue is replaced rather than cleared, so a turn already
// holding the old pointer cannot mutate the fresh session. Bumps the
// generation so in-flight completions know to drop their results.
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = NewRecommendationQueue()
	s.userTurns = 0
	s.generation++
}

// SessionRegistry hands out one live session per user
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[int64]*ChatSession
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[int64]*ChatSession),
	}
}

// Get returns the user's session, creating one when absent
func (r *SessionRegistry) Get(userID int64) *ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := NewChatSession(userID)
	r.sessions[userID] = s
	return s
}

// Drop removes a user's session entirely
func (r *SessionRegistry) Drop(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}
