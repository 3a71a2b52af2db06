package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "anthropic", cfg: Config{Provider: "anthropic", APIKey: "sk-ant-test123"}},
		{name: "openai", cfg: Config{Provider: "openai", APIKey: "sk-test123"}},
		{name: "anthropic without key", cfg: Config{Provider: "anthropic"}, wantErr: true},
		{name: "openai without key", cfg: Config{Provider: "openai"}, wantErr: true},
		{name: "unknown provider", cfg: Config{Provider: "bogus", APIKey: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, g)
		})
	}
}

func TestAnthropicClient_Generate(t *testing.T) {
	var gotReq anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("Anthropic-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		fmt.Fprint(w, `{"content": [{"type": "text", "text": "# Snake\n\nA game."}]}`)
	}))
	defer server.Close()

	g, err := New(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), Request{Mode: ModeDesign, Concept: "snake"})

	require.NoError(t, err)
	assert.Equal(t, "# Snake\n\nA game.", out)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "snake")
}

func TestOpenAIClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"choices": [{"index": 0, "message": {"role": "assistant", "content": "import pygame"}}]}`)
	}))
	defer server.Close()

	g, err := New(Config{Provider: "openai", APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), Request{Mode: ModeImplement, Design: "# Snake"})

	require.NoError(t, err)
	assert.Equal(t, "import pygame", out)
}

func TestAnthropicClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"type": "invalid_request_error", "message": "bad model"}}`)
	}))
	defer server.Close()

	g, err := New(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Request{Mode: ModeDesign, Concept: "snake"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad model")
}

func TestAnthropicClient_RetriesServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "ok"}]}`)
	}))
	defer server.Close()

	g, err := New(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), Request{Mode: ModeDesign, Concept: "snake"})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, calls)
}

func TestAnthropicClient_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "late"}]}`)
	}))
	defer server.Close()

	g, err := New(Config{Provider: "anthropic", APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = g.Generate(ctx, Request{Mode: ModeDesign, Concept: "snake"})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&retryableError{err: errors.New("transient")}))
	assert.True(t, isRetryableError(fmt.Errorf("wrapped: %w", &retryableError{err: errors.New("x")})))
	assert.False(t, isRetryableError(errors.New("permanent")))
	assert.False(t, isRetryableError(nil))
}
