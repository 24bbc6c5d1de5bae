// Package responder calls hosted language-model backends. Providers share
// one request/response shape; Ranked composes them into an ordered failover
// list with retry on transient failures.
package responder

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Reply is a generated model response with token accounting.
type Reply struct {
	Text         string `json:"text"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
}

// Responder generates a reply for a prompt under a system prompt.
type Responder interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (*Reply, error)
	Name() string
}

// ErrNoContent means the provider answered but returned no usable text.
// Fatal: surfaced to the caller, never retried.
var ErrNoContent = errors.New("no content returned")

// APIError is a non-2xx provider response.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Provider, e.Status, e.Body)
}

// Transient reports whether an error is worth retrying: a rate limit, a
// server-side failure, or a network error. Everything else is fatal for
// that provider.
func Transient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 429 || apiErr.Status >= 500
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
