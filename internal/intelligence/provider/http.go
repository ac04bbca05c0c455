package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// HTTPConfig parameterises the OpenAI-compatible chat-completions client.
// Any endpoint speaking that wire format works: hosted APIs, a local
// inference gateway, or a vLLM deployment.
type HTTPConfig struct {
	BaseURL        string        `json:"base_url"`
	APIKey         string        `json:"api_key"`
	Model          string        `json:"model"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// HTTPProvider implements Provider over the OpenAI-compatible
// /chat/completions endpoint.
type HTTPProvider struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTPProvider builds the client.  The http.Client carries the request
// timeout so that a hung endpoint cannot outlive the strategy budget.
func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 25 * time.Second
	}
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (p *HTTPProvider) Name() string { return "http:" + p.cfg.Model }

// chat wire types, trimmed to the fields this client touches.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the request and maps HTTP failures onto the provider error
// codes: 429 rate-limited, 401/403 auth, 5xx and transport errors
// unavailable (transient), anything else external-service.
func (p *HTTPProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	prompt := req.Prompt
	if len(req.Schema) > 0 {
		prompt = fmt.Sprintf("%s\n\nRespond with a single JSON object conforming to this schema:\n%s",
			req.Prompt, string(req.Schema))
	}

	body := chatRequest{
		Model:          p.cfg.Model,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal completion request")
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProviderUnavailable, "completion request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProviderUnavailable, "failed to read completion response")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.New(errors.ErrCodeProviderRateLimited, "provider rate limit exceeded")
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, errors.New(errors.ErrCodeProviderAuthFailed, "provider rejected credentials")
	case resp.StatusCode >= 500:
		return nil, errors.New(errors.ErrCodeProviderUnavailable,
			fmt.Sprintf("provider returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeExternalService,
			fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMalformedProviderResponse, "provider response is not valid JSON")
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedProviderResponse, "provider response has no choices")
	}

	return &Completion{
		Text:       parsed.Choices[0].Message.Content,
		Model:      parsed.Model,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}
