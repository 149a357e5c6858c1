package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL + "/v1",
	})
	require.NoError(t, err)
	return p
}

func openAIReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply(`{"title":"Sink or float","minutes":15}`, "stop"))

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an early childhood educator.",
		Messages:  []Message{{Role: RoleUser, Content: "Plan an activity."}},
		Schema:    testSchema(),
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 25, resp.Usage.OutputTokens)
	assert.Equal(t, 65, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply(`{"title":"Sink`, "length"))

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Plan an activity."}},
		Schema:    testSchema(),
		MaxTokens: 5,
	})
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	respond := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "error", "message": "nope"},
			})
		}
	}

	t.Run("rate limit", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, respond(http.StatusTooManyRequests)).
			Generate(context.Background(), UserRequest("", "test"))
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})
	t.Run("forbidden", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, respond(http.StatusForbidden)).
			Generate(context.Background(), UserRequest("", "test"))
		var auth *ErrAuthentication
		assert.ErrorAs(t, err, &auth)
	})
	t.Run("server error", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, respond(http.StatusInternalServerError)).
			Generate(context.Background(), UserRequest("", "test"))
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})
}

func TestNewOpenAIProvider(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())
}
