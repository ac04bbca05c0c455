package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPProvider(HTTPConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
}

func TestHTTPProvider_Complete(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.NotEmpty(t, req.Messages)
		assert.Contains(t, req.Messages[len(req.Messages)-1].Content, "conforming to this schema")

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "test-model",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"ph": 7.0}`}},
			},
			"usage": map[string]int{"total_tokens": 42},
		})
	})

	got, err := p.Complete(context.Background(), Request{
		Prompt: "extract fields",
		Schema: json.RawMessage(`{"type":"object"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ph": 7.0}`, got.Text)
	assert.Equal(t, 42, got.TokensUsed)
}

func TestHTTPProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  errors.ErrorCode
		transient bool
	}{
		{"rate limited", http.StatusTooManyRequests, errors.ErrCodeProviderRateLimited, true},
		{"auth failed", http.StatusUnauthorized, errors.ErrCodeProviderAuthFailed, false},
		{"server error", http.StatusBadGateway, errors.ErrCodeProviderUnavailable, true},
		{"unexpected status", http.StatusTeapot, errors.ErrCodeExternalService, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := p.Complete(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.wantCode))
			assert.Equal(t, tt.transient, errors.IsTransient(err))
		})
	}
}

func TestHTTPProvider_MalformedResponse(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	})

	_, err := p.Complete(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedProviderResponse))
}

func TestHTTPProvider_NoChoices(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := p.Complete(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedProviderResponse))
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider("stub", `{"product_name":"Acetone"}`)
	got, err := p.Complete(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"product_name":"Acetone"}`, got.Text)

	failing := NewFailingProvider("down", errors.New(errors.ErrCodeProviderUnavailable, "down"))
	_, err = failing.Complete(context.Background(), Request{Prompt: "x"})
	assert.True(t, errors.IsTransient(err))
}
