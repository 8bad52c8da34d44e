package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-ops-bot/pkg/anthropic"
)

func TestNew_Validation(t *testing.T) {
	_, err := anthropic.New(anthropic.Config{})
	assert.Error(t, err)

	client, err := anthropic.New(anthropic.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, anthropic.DefaultModel, client.Model())
}

func TestGenerateContent(t *testing.T) {
	var captured map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"bad key"}}`))
			return
		}

		json.NewDecoder(r.Body).Decode(&captured)
		msgs := captured["messages"].([]any)
		last := msgs[len(msgs)-1].(map[string]any)
		content := last["content"].([]any)[0].(map[string]any)
		if content["text"] == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "{\"type\":\"issue\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 30, "output_tokens": 6}
		}`))
	}))
	defer ts.Close()

	client, err := anthropic.New(anthropic.Config{APIKey: "test-key", Model: "claude-test", BaseURL: ts.URL})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		resp, err := client.GenerateContent(context.Background(), &anthropic.Request{
			System: "classify",
			Messages: []anthropic.Message{
				{Role: "user", Content: "example"},
				{Role: "assistant", Content: "{}"},
				{Role: "user", Content: "Urgent: Air compressor malfunctioning"},
			},
			Temperature: 0.1,
			JSONMode:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, `{"type":"issue"}`, resp.Content)
		assert.Equal(t, 36, resp.Usage.TotalTokens)
		assert.Equal(t, "end_turn", resp.StopReason)

		msgs := captured["messages"].([]any)
		assert.Len(t, msgs, 3)
		assert.Equal(t, "assistant", msgs[1].(map[string]any)["role"])

		system := captured["system"].([]any)[0].(map[string]any)["text"].(string)
		assert.Contains(t, system, "classify")
		assert.Contains(t, system, "JSON object")
	})

	t.Run("Server error", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &anthropic.Request{
			Messages: []anthropic.Message{{Role: "user", Content: "cause_500"}},
		})
		assert.Error(t, err)
	})
}
