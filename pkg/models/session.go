package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single in-memory conversation recorded for the process
// lifetime. The ID is only used to disambiguate persisted filenames.
type Session struct {
	ID        string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"lastUpdated"`
}

func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a valid message and bumps UpdatedAt. Invalid messages are
// discarded; the return value reports whether the message was admitted.
func (s *Session) Append(m Message) bool {
	if !m.Valid() {
		return false
	}
	s.Messages = append(s.Messages, m)
	s.UpdatedAt = time.Now()
	return true
}

// Clear empties the message log but keeps the session identity and
// creation time.
func (s *Session) Clear() {
	s.Messages = s.Messages[:0]
}

func (s *Session) Len() int { return len(s.Messages) }
