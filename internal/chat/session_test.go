package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/averyli/tutorchat/internal/memory"
	"github.com/averyli/tutorchat/internal/mode"
	"github.com/averyli/tutorchat/internal/model"
	"github.com/averyli/tutorchat/internal/responder"
)

// scriptedResponder replays replies in order, repeating the last, and
// captures every prompt it was given.
type scriptedResponder struct {
	replies []string
	prompts []string
}

func (r *scriptedResponder) Generate(ctx context.Context, prompt, systemPrompt string) (*responder.Reply, error) {
	r.prompts = append(r.prompts, prompt)
	i := len(r.prompts) - 1
	if i >= len(r.replies) {
		i = len(r.replies) - 1
	}
	return &responder.Reply{Text: r.replies[i], InputTokens: 10, OutputTokens: 20, TotalTokens: 30}, nil
}

func (r *scriptedResponder) Name() string { return "scripted" }

type fakeLedger struct {
	saved   []model.Exchange
	recent  []model.Exchange
	saveErr error
}

func (l *fakeLedger) SaveExchange(ctx context.Context, ex model.Exchange) error {
	if l.saveErr != nil {
		return l.saveErr
	}
	l.saved = append(l.saved, ex)
	return nil
}

func (l *fakeLedger) RecentExchanges(ctx context.Context, user, mode string, n int) ([]model.Exchange, error) {
	return l.recent, nil
}

func newTestSession(resp responder.Responder, ledger Ledger) (*Session, *memory.Memory) {
	mem := memory.New(memory.NewMemStore(), nil)
	return NewSession(mode.Default(), mem, ledger, resp, nil, nil), mem
}

func TestSendUnknownMode(t *testing.T) {
	s, _ := newTestSession(&scriptedResponder{replies: []string{"x"}}, &fakeLedger{})
	if _, err := s.Send(context.Background(), "alice", "nope", "hi"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSendEmptyReply(t *testing.T) {
	s, _ := newTestSession(&scriptedResponder{replies: []string{"   \n  "}}, &fakeLedger{})
	_, err := s.Send(context.Background(), "alice", "debate", "topic")
	if !errors.Is(err, responder.ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

func TestSendRecordsExchange(t *testing.T) {
	ledger := &fakeLedger{}
	s, _ := newTestSession(&scriptedResponder{replies: []string{"Both sides have merit."}}, ledger)

	res, err := s.Send(context.Background(), "alice", "debate", "cats vs dogs")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(ledger.saved) != 1 {
		t.Fatalf("saved %d exchanges, want 1", len(ledger.saved))
	}
	ex := ledger.saved[0]
	if ex.User != "alice" || ex.Mode != "debate" || ex.Prompt != "cats vs dogs" {
		t.Errorf("exchange = %+v", ex)
	}
	if ex.TotalTokens != 30 {
		t.Errorf("total tokens = %d, want 30", ex.TotalTokens)
	}
	if res.ModeLabel != "Debate Mode" || len(res.Blocks) == 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestSendStudyContextInjection(t *testing.T) {
	resp := &scriptedResponder{replies: []string{"An integral accumulates change."}}
	s, mem := newTestSession(resp, &fakeLedger{})
	ctx := context.Background()

	// First question: no memory yet, the prompt goes through untouched.
	if _, err := s.Send(ctx, "alice", "study", "what is a derivative"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.prompts[0] != "what is a derivative" {
		t.Errorf("first prompt = %q", resp.prompts[0])
	}

	// Second question: the stored exchange is prepended as context.
	if _, err := s.Send(ctx, "alice", "study", "what is an integral"); err != nil {
		t.Fatalf("send: %v", err)
	}
	second := resp.prompts[1]
	if !strings.HasPrefix(second, "Context from recent questions:\n") {
		t.Errorf("context not prepended: %q", second)
	}
	if !strings.Contains(second, "what is a derivative") {
		t.Errorf("previous question missing: %q", second)
	}
	if !strings.HasSuffix(second, "what is an integral") {
		t.Errorf("new question not last: %q", second)
	}

	// And the second exchange was stored in memory too.
	if got := mem.Study(ctx, "alice"); len(got) != 2 {
		t.Errorf("study records = %d, want 2", len(got))
	}
}

func TestSendFunDedupRegenerates(t *testing.T) {
	resp := &scriptedResponder{replies: []string{
		"why did the chicken cross the road",
		"why did the chicken cross the road",
		"what do you call a fish with no eyes",
	}}
	s, mem := newTestSession(resp, &fakeLedger{})
	ctx := context.Background()

	mem.RecordFun(ctx, "bob", "joke", "why did the chicken cross the road")

	res, err := s.Send(ctx, "bob", "fun", "tell me a joke")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Regenerated != 2 {
		t.Errorf("regenerated = %d, want 2", res.Regenerated)
	}
	if len(resp.prompts) != 3 {
		t.Errorf("generate called %d times, want 3", len(resp.prompts))
	}
	if !strings.Contains(res.Exchange.Reply, "fish") {
		t.Errorf("final reply = %q", res.Exchange.Reply)
	}
	if !strings.Contains(resp.prompts[1], "Give a different one") {
		t.Errorf("retry prompt = %q", resp.prompts[1])
	}
}

func TestSendFunDedupBudgetExhausted(t *testing.T) {
	resp := &scriptedResponder{replies: []string{"why did the chicken cross the road"}}
	s, mem := newTestSession(resp, &fakeLedger{})
	ctx := context.Background()

	mem.RecordFun(ctx, "bob", "joke", "why did the chicken cross the road")

	res, err := s.Send(ctx, "bob", "fun", "tell me a joke")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	// Two regenerations, then the repeat is accepted.
	if res.Regenerated != 2 || len(resp.prompts) != 3 {
		t.Errorf("regenerated = %d after %d calls", res.Regenerated, len(resp.prompts))
	}
	if !strings.Contains(res.Exchange.Reply, "chicken") {
		t.Errorf("final reply = %q", res.Exchange.Reply)
	}
}

func TestSendFunContextReplay(t *testing.T) {
	resp := &scriptedResponder{replies: []string{"ha, good one"}}
	ledger := &fakeLedger{recent: []model.Exchange{
		{Prompt: "tell me a joke", Reply: "the chicken one"},
	}}
	s, _ := newTestSession(resp, ledger)

	if _, err := s.Send(context.Background(), "bob", "fun", "another"); err != nil {
		t.Fatalf("send: %v", err)
	}
	prompt := resp.prompts[0]
	if !strings.HasPrefix(prompt, "Recent conversation context:\n") {
		t.Errorf("context missing: %q", prompt)
	}
	if !strings.Contains(prompt, "You: the chicken one") {
		t.Errorf("prior reply missing: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "another") {
		t.Errorf("new message not last: %q", prompt)
	}
}

func TestSendLedgerFailureNonFatal(t *testing.T) {
	ledger := &fakeLedger{saveErr: errors.New("disk full")}
	s, _ := newTestSession(&scriptedResponder{replies: []string{"still works"}}, ledger)

	res, err := s.Send(context.Background(), "alice", "debate", "topic")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Exchange.Reply != "still works" {
		t.Errorf("reply = %q", res.Exchange.Reply)
	}
}

func TestSendStepEligibleSegmentation(t *testing.T) {
	resp := &scriptedResponder{replies: []string{"Step 1: Write it down.\nStep 2: Solve for x."}}
	s, _ := newTestSession(resp, &fakeLedger{})

	res, err := s.Send(context.Background(), "alice", "study", "solve it")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(res.Blocks))
	}
	if res.Blocks[0].Kind != model.BlockStep || res.Blocks[1].Kind != model.BlockStep {
		t.Errorf("blocks = %+v", res.Blocks)
	}
}

func TestClassifyFunType(t *testing.T) {
	cases := []struct{ prompt, want string }{
		{"tell me a joke", "joke"},
		{"Give me a RIDDLE", "riddle"},
		{"share a fun fact", "fact"},
		{"how are you", "response"},
	}
	for _, c := range cases {
		if got := classifyFunType(c.prompt); got != c.want {
			t.Errorf("classifyFunType(%q) = %q, want %q", c.prompt, got, c.want)
		}
	}
}
