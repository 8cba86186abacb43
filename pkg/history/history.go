// Package history owns the single live chat session: all reads and writes go
// through the Store, which also persists the session to disk.
package history

import (
	"sort"
	"sync"

	"chatterbox/pkg/logger"
	"chatterbox/pkg/models"
)

// Store is the single source of truth for the active session. A mutex
// serializes access because the HTTP layer dispatches handlers concurrently.
type Store struct {
	mu      sync.Mutex
	session *models.Session
	dir     string
}

// New creates a store with a fresh session persisting into dir.
func New(dir string) *Store {
	return &Store{session: models.NewSession(), dir: dir}
}

// AddMessage constructs a message and appends it to the live session. An
// invalid message (unknown role, blank content) is discarded rather than
// rejected with an error; validation already happened at the HTTP boundary.
// The return value reports whether the message was admitted.
func (s *Store) AddMessage(role, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.session.Append(models.NewMessage(role, content))
	if !ok {
		logger.Warn("message_discarded", "role", role)
	}
	return ok
}

// Ascending returns all messages oldest-first. The order is recomputed on
// every call; ties keep insertion order.
func (s *Store) Ascending() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ascendingLocked()
}

// Descending returns all messages newest-first, the exact reverse of
// Ascending for any session state.
func (s *Store) Descending() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	asc := s.ascendingLocked()
	for i, j := 0, len(asc)-1; i < j; i, j = i+1, j-1 {
		asc[i], asc[j] = asc[j], asc[i]
	}
	return asc
}

func (s *Store) ascendingLocked() []models.Message {
	out := make([]models.Message, len(s.session.Messages))
	copy(out, s.session.Messages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Clear empties the session's messages; identity and creation time survive.
// Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Clear()
	logger.Info("session_cleared", "session", s.session.ID)
}

// Len returns the current message count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Len()
}

// SessionID returns the live session's identifier.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ID
}

// snapshot returns a deep-enough copy of the session for serialization
// outside the lock.
func (s *Store) snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.session
	cp.Messages = make([]models.Message, len(s.session.Messages))
	copy(cp.Messages, s.session.Messages)
	return cp
}
