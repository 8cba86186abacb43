package models

import (
	"strings"
	"time"
)

// Roles a message may carry. Anything else is rejected by Valid.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// Valid reports whether the message may enter a session: a known role and
// non-empty content after trimming whitespace.
func (m Message) Valid() bool {
	if strings.TrimSpace(m.Content) == "" {
		return false
	}
	switch m.Role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
