package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Classify_Success(t *testing.T) {
	// Mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var genReq ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&genReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if genReq.Format != "json" {
			t.Errorf("Expected JSON format mode, got %q", genReq.Format)
		}
		if genReq.Stream {
			t.Error("Expected streaming disabled")
		}
		if genReq.System == "" {
			t.Error("Expected system prompt to be set")
		}

		// Return success response
		resp := ollamaResponse{
			Model:    "llama3.1",
			Response: `{"disaster_type": "earthquake", "urgency": "high", "confidence": 0.8}`,
			Done:     true,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
		Model:   "llama3.1",
		Timeout: 5,
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	raw, err := provider.Classify(context.Background(), ClassifyRequest{Text: "Buildings collapsed downtown"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if raw != `{"disaster_type": "earthquake", "urgency": "high", "confidence": 0.8}` {
		t.Errorf("Unexpected raw response: %s", raw)
	}
}

func TestOllamaProvider_Classify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Classify(context.Background(), ClassifyRequest{Text: "test"})
	if err == nil {
		t.Error("Expected error for API failure")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}
}

func TestNewOllamaProvider_DefaultBaseURL(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.baseURL != "http://localhost:11434" {
		t.Errorf("Expected default base URL, got %s", provider.baseURL)
	}
}

func TestNewProvider_Factory(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantNil  bool
		wantErr  bool
		wantName string
	}{
		{"disabled", Config{Provider: ""}, true, false, ""},
		{"openai", Config{Provider: "openai", APIKey: "key"}, false, false, "openai"},
		{"ollama", Config{Provider: "ollama"}, false, false, "ollama"},
		{"case insensitive", Config{Provider: "OpenAI", APIKey: "key"}, false, false, "openai"},
		{"unknown", Config{Provider: "bard"}, true, true, ""},
		{"openai without key", Config{Provider: "openai"}, true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr && err == nil {
				t.Error("Expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantNil && provider != nil {
				t.Errorf("Expected nil provider, got %v", provider.Name())
			}
			if !tt.wantNil {
				if provider == nil {
					t.Fatal("Expected provider")
				}
				if provider.Name() != tt.wantName {
					t.Errorf("Expected name %s, got %s", tt.wantName, provider.Name())
				}
			}
		})
	}
}
