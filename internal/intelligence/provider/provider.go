// Package provider abstracts the text-completion capability used by the
// probabilistic extraction strategy.  The core treats every provider as
// interchangeable behind Complete; selection is a closed set driven by
// configuration, never by runtime string matching on responses.
package provider

import (
	"context"
	"encoding/json"
)

// Request is a single structured-extraction completion request.  Schema is
// a JSON-schema document describing the object the provider must return;
// providers that support native structured output pass it through, others
// embed it in the prompt.
type Request struct {
	System      string          `json:"system,omitempty"`
	Prompt      string          `json:"prompt"`
	Schema      json.RawMessage `json:"schema,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

// Completion is the provider's reply.  Text is expected to be a JSON object
// conforming to Request.Schema; the caller validates, the provider does not.
type Completion struct {
	Text       string `json:"text"`
	Model      string `json:"model,omitempty"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}

// Provider is the text-completion contract.  Complete returns a transient
// AppError code (provider unavailable, rate limited, timeout) when a retry
// might help and a permanent one otherwise; the orchestrator keys its retry
// policy off errors.IsTransient.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Completion, error)
}
