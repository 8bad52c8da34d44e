package llmprovider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"station-ops-bot/config"
	"station-ops-bot/pkg/llmprovider"
	"station-ops-bot/pkg/log"
)

// TestIntegration_ConfigToManagerFlow verifies that configuration,
// provider initialization, and the manager work together end to end.
func TestIntegration_ConfigToManagerFlow(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer failing.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message":       map[string]any{"role": "assistant", "content": `{"type":"Task","task_title":"Fix pump"}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
		})
	}))
	defer working.Close()

	cfg := &config.LLMConfig{
		Providers: []config.ProviderConfig{
			{Name: "openai", Enabled: true, Priority: 2, APIKey: "ok-key", BaseURL: working.URL, Model: "gpt-4o-mini", Timeout: "5s"},
			{Name: "deepseek", Enabled: true, Priority: 1, APIKey: "bad-key", BaseURL: failing.URL, Model: "deepseek-chat", Timeout: "5s"},
			{Name: "gemini", Enabled: false, Priority: 0, APIKey: "unused"},
		},
		FallbackEnabled: true,
		RetryAttempts:   1,
		RetryDelay:      "1ms",
		MaxTotalTimeout: "10s",
	}

	providers, warnings, err := llmprovider.InitializeProviders(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize providers: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if len(providers) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(providers))
	}
	if providers[0].Name() != "deepseek" || providers[1].Name() != "openai" {
		t.Errorf("Expected priority order deepseek,openai got %s,%s", providers[0].Name(), providers[1].Name())
	}

	managerCfg, err := llmprovider.NewManagerConfig(cfg)
	if err != nil {
		t.Fatalf("NewManagerConfig: %v", err)
	}
	if managerCfg.RetryDelay != time.Millisecond {
		t.Errorf("Expected retry delay 1ms, got %s", managerCfg.RetryDelay)
	}
	if managerCfg.RetryMaxDelay != 20*time.Second {
		t.Errorf("Expected default retry max delay 20s, got %s", managerCfg.RetryMaxDelay)
	}

	manager := llmprovider.NewManager(providers, managerCfg, log.NewNop())
	resp, err := manager.GenerateContent(context.Background(), &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{Parts: []llmprovider.Part{{Text: "Return JSON."}}},
		Messages:          []llmprovider.Message{llmprovider.TextMessage(llmprovider.RoleUser, "Fix pump")},
		JSONMode:          true,
	})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if resp.ProviderName != "openai" {
		t.Errorf("Expected fallback to openai, got %s", resp.ProviderName)
	}
	if !strings.Contains(resp.Content.Text(), `"Task"`) {
		t.Errorf("Unexpected content %q", resp.Content.Text())
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 20 {
		t.Errorf("Expected usage total 20, got %+v", resp.Usage)
	}
}

func TestInitializeProviders_SkipsBrokenEntries(t *testing.T) {
	cfg := &config.LLMConfig{
		Providers: []config.ProviderConfig{
			{Name: "gemini", Enabled: true, Priority: 1, APIKey: "key"},
			{Name: "mystery", Enabled: true, Priority: 2, APIKey: "key"},
			{Name: "claude", Enabled: true, Priority: 3, APIKey: ""},
		},
	}

	providers, warnings, err := llmprovider.InitializeProviders(cfg)
	if err != nil {
		t.Fatalf("Expected partial success, got %v", err)
	}
	if len(providers) != 1 || providers[0].Name() != "gemini" {
		t.Fatalf("Expected only gemini, got %d providers", len(providers))
	}
	if len(warnings) != 2 {
		t.Errorf("Expected 2 warnings, got %v", warnings)
	}
}

func TestInitializeProviders_NoneEnabled(t *testing.T) {
	_, _, err := llmprovider.InitializeProviders(&config.LLMConfig{
		Providers: []config.ProviderConfig{{Name: "openai", APIKey: "k"}},
	})
	if err != llmprovider.ErrNoProvidersConfigured {
		t.Fatalf("Expected ErrNoProvidersConfigured, got %v", err)
	}
}

func TestNewManagerConfig_InvalidDuration(t *testing.T) {
	_, err := llmprovider.NewManagerConfig(&config.LLMConfig{RetryDelay: "soon"})
	if err == nil {
		t.Fatal("Expected error for invalid duration")
	}
}
