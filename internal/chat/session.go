// Package chat orchestrates one prompt/reply exchange: context assembly,
// generation with fun-mode duplicate avoidance, normalization, and
// persistence.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/averyli/tutorchat/internal/memory"
	"github.com/averyli/tutorchat/internal/mode"
	"github.com/averyli/tutorchat/internal/model"
	"github.com/averyli/tutorchat/internal/responder"
	"github.com/averyli/tutorchat/internal/textproc"
)

// funRetryBudget is how many extra generations a near-duplicate fun reply
// may trigger before the content is accepted anyway.
const funRetryBudget = 2

// funContextSize is how many recent fun exchanges are replayed as context.
const funContextSize = 3

// Ledger is the append-only conversation store.
type Ledger interface {
	SaveExchange(ctx context.Context, ex model.Exchange) error
	RecentExchanges(ctx context.Context, user, mode string, n int) ([]model.Exchange, error)
}

// Session ties the catalog, memory, ledger and responders together.
type Session struct {
	catalog mode.Catalog
	memory  *memory.Memory
	ledger  Ledger
	primary responder.Responder
	gemini  responder.Responder
	log     *zap.Logger
}

// Result is one completed exchange plus its renderable block sequence.
type Result struct {
	Exchange    model.Exchange    `json:"exchange"`
	Blocks      []model.TextBlock `json:"blocks"`
	ModeLabel   string            `json:"mode_label"`
	Regenerated int               `json:"regenerated,omitempty"`
}

// NewSession builds a session. geminiLed may be nil, in which case all
// modes use the primary responder. A nil logger defaults to a no-op logger.
func NewSession(catalog mode.Catalog, mem *memory.Memory, ledger Ledger, primary, geminiLed responder.Responder, log *zap.Logger) *Session {
	if geminiLed == nil {
		geminiLed = primary
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		catalog: catalog,
		memory:  mem,
		ledger:  ledger,
		primary: primary,
		gemini:  geminiLed,
		log:     log,
	}
}

// Send runs one exchange end to end. Responder failures surface to the
// caller; memory and ledger failures degrade and never block the reply.
func (s *Session) Send(ctx context.Context, user, modeName, text string) (*Result, error) {
	profile, ok := s.catalog.Get(modeName)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", modeName)
	}

	prompt := text
	if profile.StudyContext {
		if cx := s.memory.FormatContext(ctx, user); cx != "" {
			prompt = cx + text
		}
	}
	if profile.FunDedup {
		if cx := s.funContext(ctx, user, profile.Name); cx != "" {
			prompt = cx + "\n\n" + text
		}
	}

	resp := s.primary
	if profile.GeminiFirst {
		resp = s.gemini
	}

	reply, err := resp.Generate(ctx, prompt, profile.SystemPrompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply.Text) == "" {
		return nil, responder.ErrNoContent
	}

	regenerated := 0
	if profile.FunDedup {
		itemType := classifyFunType(text)
		for regenerated < funRetryBudget && s.memory.IsDuplicateFun(ctx, user, itemType, reply.Text) {
			regenerated++
			s.log.Info("fun reply flagged as duplicate, regenerating",
				zap.String("user", user), zap.Int("attempt", regenerated))
			retryPrompt := prompt + "\n\nYou already said something like that. Give a different one."
			fresh, err := resp.Generate(ctx, retryPrompt, profile.SystemPrompt)
			if err != nil {
				// Budget or not, the last-seen content stands.
				s.log.Warn("regeneration failed, keeping previous reply", zap.Error(err))
				break
			}
			if strings.TrimSpace(fresh.Text) != "" {
				reply = fresh
			}
		}
		s.memory.RecordFun(ctx, user, itemType, reply.Text)
	}
	if profile.StudyContext {
		s.memory.RecordStudy(ctx, user, text, reply.Text)
	}

	ex := model.Exchange{
		ID:           ulid.Make().String(),
		User:         user,
		Mode:         profile.Name,
		Prompt:       text,
		Reply:        reply.Text,
		InputTokens:  reply.InputTokens,
		OutputTokens: reply.OutputTokens,
		TotalTokens:  reply.TotalTokens,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.ledger.SaveExchange(ctx, ex); err != nil {
		// The reply is still shown; history just has a gap.
		s.log.Warn("save exchange", zap.String("user", user), zap.Error(err))
	}

	return &Result{
		Exchange:    ex,
		Blocks:      textproc.Process(reply.Text, profile.StepEligible),
		ModeLabel:   profile.Label,
		Regenerated: regenerated,
	}, nil
}

// funContext replays the user's recent fun exchanges so the model keeps the
// conversational thread.
func (s *Session) funContext(ctx context.Context, user, modeName string) string {
	exchanges, err := s.ledger.RecentExchanges(ctx, user, modeName, funContextSize)
	if err != nil {
		s.log.Warn("recent exchanges", zap.String("user", user), zap.Error(err))
		return ""
	}
	if len(exchanges) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Recent conversation context:\n")
	for _, ex := range exchanges {
		fmt.Fprintf(&b, "User: %s\nYou: %s\n", ex.Prompt, ex.Reply)
	}
	b.WriteString("\nNow respond to the new message:")
	return b.String()
}

// classifyFunType tags a fun request so duplicate checks stay scoped to the
// same kind of content.
func classifyFunType(prompt string) string {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "joke"):
		return "joke"
	case strings.Contains(p, "riddle"):
		return "riddle"
	case strings.Contains(p, "fact"):
		return "fact"
	default:
		return "response"
	}
}
