package ai

import (
	"context"
	"errors"
)

var (
	// ErrResourceExhausted means the quota behind the API key is used up.
	ErrResourceExhausted = errors.New("ai: resource exhausted")
	// ErrTooManyRequests means the service is throttling regardless of key.
	ErrTooManyRequests = errors.New("ai: too many requests")
)

// Provider sends a prompt to a generative model under the given API key and
// returns the raw text reply.
type Provider interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}
