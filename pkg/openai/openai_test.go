package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"station-ops-bot/pkg/openai"
)

func TestNew_Validation(t *testing.T) {
	if _, err := openai.New(openai.Config{}); err == nil {
		t.Fatalf("expected error without API key")
	}

	client, err := openai.New(openai.Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != openai.DefaultModel {
		t.Errorf("expected default model, got %s", client.Model())
	}
}

func TestGenerateContent(t *testing.T) {
	var captured map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"bad key"}`))
			return
		}

		json.NewDecoder(r.Body).Decode(&captured)

		msgs := captured["messages"].([]interface{})
		last := msgs[len(msgs)-1].(map[string]interface{})
		if last["content"] == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`upstream down`))
			return
		}
		if last["content"] == "no_choices" {
			w.Write([]byte(`{"choices":[]}`))
			return
		}

		w.Write([]byte(`{
			"id": "cmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"type\":\"expense\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer ts.Close()

	client, _ := openai.New(openai.Config{APIKey: "test-key", BaseURL: ts.URL + "/", Model: "gpt-4o-mini"})

	t.Run("Success with JSON mode", func(t *testing.T) {
		resp, err := client.GenerateContent(context.Background(), &openai.Request{
			System:      "classify",
			Messages:    []openai.Message{{Role: "user", Content: "Paid 5000 for lunch"}},
			Temperature: 0.1,
			JSONMode:    true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Content != `{"type":"expense"}` {
			t.Errorf("unexpected content: %s", resp.Content)
		}
		if resp.Usage.TotalTokens != 17 {
			t.Errorf("unexpected usage: %+v", resp.Usage)
		}

		msgs := captured["messages"].([]interface{})
		if len(msgs) != 2 || msgs[0].(map[string]interface{})["role"] != "system" {
			t.Errorf("expected system message first, got %v", msgs)
		}
		rf, ok := captured["response_format"].(map[string]interface{})
		if !ok || rf["type"] != "json_object" {
			t.Errorf("expected json_object response format, got %v", captured["response_format"])
		}
	})

	t.Run("API error", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Message{{Role: "user", Content: "cause_500"}},
		})
		if err == nil || !strings.Contains(err.Error(), "500") {
			t.Fatalf("expected API error with status, got %v", err)
		}
	})

	t.Run("No choices", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Message{{Role: "user", Content: "no_choices"}},
		})
		if err == nil {
			t.Fatalf("expected error for empty choices")
		}
	})
}
