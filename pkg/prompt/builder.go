// Package prompt assembles the bounded message list sent to the completion
// endpoint: one fixed persona entry, a trailing window of history, then the
// new user turn.
package prompt

import (
	"sort"

	"chatterbox/pkg/models"
	"chatterbox/pkg/openai"
)

// Persona is the fixed system instruction prepended to every request.
const Persona = `Du är Chatterbox, en 55-årig kundtjänstmedarbetare på Nätonnät. ` +
	`Du bor i Stockholm och är expert på hemelektronik. ` +
	`Du hjälper ENDAST med frågor om hemelektronik som TV, datorer, mobiler, ` +
	`hushållsapparater, ljudutrustning, etc. ` +
	`Om någon frågar om något annat än hemelektronik, förklara vänligt att ` +
	`du endast kan hjälpa till med hemelektronik-relaterade frågor. ` +
	`Var professionell men vänlig i din ton.`

// DefaultWindow bounds how many trailing history messages are included.
const DefaultWindow = 10

// Builder produces outbound message lists with a fixed trailing window.
type Builder struct {
	window int
}

// NewBuilder returns a builder keeping the last window history messages per
// request. Non-positive values fall back to DefaultWindow.
func NewBuilder(window int) *Builder {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Builder{window: window}
}

// Build returns [persona, last-window history ascending, user turn]. The
// persona entry is always first even if history itself contains system
// messages. The returned slice is built fresh on every call and never
// mutated afterwards.
func (b *Builder) Build(history []models.Message, userText string) []openai.ChatMessage {
	recent := make([]models.Message, len(history))
	copy(recent, history)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.Before(recent[j].Timestamp)
	})
	if len(recent) > b.window {
		recent = recent[len(recent)-b.window:]
	}

	out := make([]openai.ChatMessage, 0, len(recent)+2)
	out = append(out, openai.ChatMessage{Role: models.RoleSystem, Content: Persona})
	for _, m := range recent {
		out = append(out, openai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	out = append(out, openai.ChatMessage{Role: models.RoleUser, Content: userText})
	return out
}
