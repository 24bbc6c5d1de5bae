package responder

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// maxAttempts is the per-provider retry budget for transient failures.
	maxAttempts = 3
	baseBackoff = time.Second
)

// Ranked tries providers in order. Transient failures are retried against
// the same provider with exponential backoff, then the next provider is
// tried; a fatal failure moves on immediately. The last error is returned
// when every provider is exhausted.
type Ranked struct {
	providers []Responder
	log       *zap.Logger
	sleep     func(context.Context, time.Duration) error
}

// NewRanked builds a failover list. A nil logger defaults to a no-op logger.
func NewRanked(log *zap.Logger, providers ...Responder) *Ranked {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranked{providers: providers, log: log, sleep: sleepCtx}
}

func (r *Ranked) Name() string { return "ranked" }

func (r *Ranked) Generate(ctx context.Context, prompt, systemPrompt string) (*Reply, error) {
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no responders configured")
	}

	var lastErr error
	for _, p := range r.providers {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			reply, err := p.Generate(ctx, prompt, systemPrompt)
			if err == nil {
				return reply, nil
			}
			lastErr = err

			if !Transient(err) {
				r.log.Warn("responder failed", zap.String("provider", p.Name()), zap.Error(err))
				break
			}
			if attempt < maxAttempts-1 {
				wait := baseBackoff << attempt
				r.log.Warn("responder transient failure, retrying",
					zap.String("provider", p.Name()),
					zap.Duration("wait", wait), zap.Error(err))
				if err := r.sleep(ctx, wait); err != nil {
					return nil, err
				}
			}
		}
	}
	return nil, fmt.Errorf("all responders failed: %w", lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewFromEnv builds the ranked provider list from environment variables:
//
//	TUTORCHAT_PERPLEXITY_KEY, TUTORCHAT_PERPLEXITY_KEY_2: Perplexity keys
//	TUTORCHAT_GEMINI_KEY (or GEMINI_API_KEY): Gemini key
//	TUTORCHAT_PERPLEXITY_MODEL, TUTORCHAT_GEMINI_MODEL: model overrides
//
// geminiFirst flips the ordering for the modes served primarily by Gemini.
func NewFromEnv(log *zap.Logger, geminiFirst bool) *Ranked {
	var primary, fallback []Responder

	if key := os.Getenv("TUTORCHAT_PERPLEXITY_KEY"); key != "" {
		primary = append(primary, NewPerplexityResponder("", key, os.Getenv("TUTORCHAT_PERPLEXITY_MODEL")))
	}
	if key := os.Getenv("TUTORCHAT_PERPLEXITY_KEY_2"); key != "" {
		primary = append(primary, NewPerplexityResponder("", key, os.Getenv("TUTORCHAT_PERPLEXITY_MODEL")))
	}

	geminiKey := os.Getenv("TUTORCHAT_GEMINI_KEY")
	if geminiKey == "" {
		geminiKey = os.Getenv("GEMINI_API_KEY")
	}
	if geminiKey != "" {
		fallback = append(fallback, NewGeminiResponder(geminiKey, os.Getenv("TUTORCHAT_GEMINI_MODEL")))
	}

	if geminiFirst {
		return NewRanked(log, append(fallback, primary...)...)
	}
	return NewRanked(log, append(primary, fallback...)...)
}
