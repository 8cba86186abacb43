// Package chat composes the history store, context builder and completion
// client into the operations the HTTP layer calls.
package chat

import (
	"context"
	"errors"
	"time"

	"chatterbox/pkg/history"
	"chatterbox/pkg/logger"
	"chatterbox/pkg/models"
	"chatterbox/pkg/openai"
	"chatterbox/pkg/prompt"
	"chatterbox/pkg/telemetry"
)

// Completer is the completion endpoint as the service sees it.
type Completer interface {
	Send(ctx context.Context, messages []openai.ChatMessage) (string, error)
	IsConfigured() bool
}

// Exchange is one completed user/assistant round trip.
type Exchange struct {
	UserText  string `json:"userMessage"`
	ReplyText string `json:"aiResponse"`
}

// Service mediates one live conversation.
type Service struct {
	store   *history.Store
	client  Completer
	builder *prompt.Builder
}

func NewService(store *history.Store, client Completer, builder *prompt.Builder) *Service {
	return &Service{store: store, client: client, builder: builder}
}

// SendAndRecord appends the user turn, sends the assembled context to the
// completion endpoint and appends the reply. The session lock is not held
// during the network call: the user message is appended first, an immutable
// snapshot feeds the builder, and the assistant reply is appended after the
// round trip. A failed completion leaves the user message in place.
func (s *Service) SendAndRecord(ctx context.Context, userText string) (Exchange, error) {
	if !s.client.IsConfigured() {
		telemetry.ObserveCompletion("not_configured", 0)
		return Exchange{}, openai.ErrNotConfigured
	}

	if s.store.AddMessage(models.RoleUser, userText) {
		telemetry.CountMessage(models.RoleUser)
	}
	snapshot := s.store.Ascending()
	outbound := s.builder.Build(snapshot, userText)

	start := time.Now()
	reply, err := s.client.Send(ctx, outbound)
	if err != nil {
		telemetry.ObserveCompletion(outcomeFor(err), time.Since(start))
		logger.Error("completion_failed", "error", err)
		return Exchange{}, err
	}
	telemetry.ObserveCompletion("ok", time.Since(start))

	if s.store.AddMessage(models.RoleAssistant, reply) {
		telemetry.CountMessage(models.RoleAssistant)
	}
	return Exchange{UserText: userText, ReplyText: reply}, nil
}

// History returns the conversation newest-first for display.
func (s *Service) History() []models.Message { return s.store.Descending() }

// ClearHistory empties the live session.
func (s *Service) ClearHistory() { s.store.Clear() }

// IsConfigured delegates to the completion client.
func (s *Service) IsConfigured() bool { return s.client.IsConfigured() }

func outcomeFor(err error) string {
	var mr *openai.MalformedResponseError
	switch {
	case errors.Is(err, openai.ErrNotConfigured):
		return "not_configured"
	case errors.As(err, &mr):
		return "malformed"
	default:
		return "request_failed"
	}
}
