// Package validation guards the caller boundary: message bounds and
// sanitization happen here, before anything reaches the session core.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyMessage = errors.New("message is empty")

// MaxLenError reports an oversized inbound message.
type MaxLenError struct {
	Len int
	Max int
}

func (e *MaxLenError) Error() string {
	return fmt.Sprintf("message too long: %d > %d", e.Len, e.Max)
}

// ValidateChatMessage checks the inbound text against the configured bound.
// The core silently discards invalid messages; this is the layer that turns
// bad input into a caller-visible error instead.
func ValidateChatMessage(text string, max int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyMessage
	}
	if max > 0 && len(trimmed) > max {
		return &MaxLenError{Len: len(trimmed), Max: max}
	}
	return nil
}

var sanitizer = strings.NewReplacer(
	"<script>", "",
	"</script>", "",
	"<", "&lt;",
	">", "&gt;",
)

// Sanitize trims the message and neutralizes markup before it is recorded
// or echoed back to clients.
func Sanitize(text string) string {
	return sanitizer.Replace(strings.TrimSpace(text))
}
