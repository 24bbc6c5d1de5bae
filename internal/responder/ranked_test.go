package responder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubResponder returns scripted results in order, then repeats the last one.
type stubResponder struct {
	name    string
	replies []*Reply
	errs    []error
	calls   int
}

func (s *stubResponder) Generate(ctx context.Context, prompt, systemPrompt string) (*Reply, error) {
	i := s.calls
	if i >= len(s.errs) {
		i = len(s.errs) - 1
	}
	s.calls++
	return s.replies[i], s.errs[i]
}

func (s *stubResponder) Name() string { return s.name }

func newTestRanked(t *testing.T, providers ...Responder) *Ranked {
	t.Helper()
	r := NewRanked(nil, providers...)
	r.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return r
}

func TestRankedFirstTrySuccess(t *testing.T) {
	ok := &stubResponder{name: "a", replies: []*Reply{{Text: "hi"}}, errs: []error{nil}}
	r := newTestRanked(t, ok)

	reply, err := r.Generate(context.Background(), "p", "s")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply.Text != "hi" || ok.calls != 1 {
		t.Errorf("reply %q after %d calls", reply.Text, ok.calls)
	}
}

func TestRankedRetriesTransient(t *testing.T) {
	rateLimited := &APIError{Provider: "a", Status: 429, Body: "slow down"}
	flaky := &stubResponder{
		name:    "a",
		replies: []*Reply{nil, nil, {Text: "third time"}},
		errs:    []error{rateLimited, rateLimited, nil},
	}
	r := newTestRanked(t, flaky)

	reply, err := r.Generate(context.Background(), "p", "s")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply.Text != "third time" || flaky.calls != 3 {
		t.Errorf("reply %q after %d calls", reply.Text, flaky.calls)
	}
}

func TestRankedFatalMovesToNextProvider(t *testing.T) {
	badKey := &APIError{Provider: "a", Status: 401, Body: "unauthorized"}
	broken := &stubResponder{name: "a", replies: []*Reply{nil}, errs: []error{badKey}}
	backup := &stubResponder{name: "b", replies: []*Reply{{Text: "saved"}}, errs: []error{nil}}
	r := newTestRanked(t, broken, backup)

	reply, err := r.Generate(context.Background(), "p", "s")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply.Text != "saved" {
		t.Errorf("reply = %q", reply.Text)
	}
	if broken.calls != 1 {
		t.Errorf("fatal error retried: %d calls", broken.calls)
	}
}

func TestRankedExhaustsThenFails(t *testing.T) {
	down := &APIError{Provider: "a", Status: 503, Body: "unavailable"}
	first := &stubResponder{name: "a", replies: []*Reply{nil}, errs: []error{down}}
	second := &stubResponder{name: "b", replies: []*Reply{nil}, errs: []error{down}}
	r := newTestRanked(t, first, second)

	_, err := r.Generate(context.Background(), "p", "s")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "all responders failed") {
		t.Errorf("error = %v", err)
	}
	if first.calls != maxAttempts || second.calls != maxAttempts {
		t.Errorf("calls = %d, %d, want %d each", first.calls, second.calls, maxAttempts)
	}
}

func TestRankedNoProviders(t *testing.T) {
	r := newTestRanked(t)
	if _, err := r.Generate(context.Background(), "p", "s"); err == nil {
		t.Fatal("expected error")
	}
}

func TestTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&APIError{Status: 429}, true},
		{&APIError{Status: 500}, true},
		{&APIError{Status: 503}, true},
		{&APIError{Status: 400}, false},
		{&APIError{Status: 401}, false},
		{ErrNoContent, false},
		{errors.New("other"), false},
	}
	for _, c := range cases {
		if got := Transient(c.err); got != c.want {
			t.Errorf("Transient(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
