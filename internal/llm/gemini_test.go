package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

const geminiGroundedBody = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "**Match:** Arsenal vs Chelsea"}]},
    "finishReason": "STOP",
    "groundingMetadata": {
      "groundingChunks": [
        {"web": {"uri": "https://example.com/table", "title": "League table"}},
        {},
        {"web": {"uri": "https://example.com/news", "title": ""}}
      ]
    }
  }],
  "usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 20, "totalTokenCount": 30}
}`

func TestGeminiProvider_Generate_Grounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("Expected generateContent call, got %s", r.URL.Path)
		}
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash") {
			t.Errorf("Expected default model in path, got %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("Expected x-goog-api-key test-key, got %q", r.Header.Get("x-goog-api-key"))
		}

		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "googleSearch") {
			t.Errorf("Expected googleSearch tool in request, got %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiGroundedBody))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Prompt:       "predict",
		EnableSearch: true,
		Temperature:  0.3,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != "**Match:** Arsenal vs Chelsea" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if len(resp.Citations) != 3 {
		t.Fatalf("Expected 3 citation records, got %d", len(resp.Citations))
	}
	if resp.Citations[0].URI != "https://example.com/table" || resp.Citations[0].Title != "League table" {
		t.Errorf("Unexpected first citation: %+v", resp.Citations[0])
	}
	if resp.Citations[1].URI != "" {
		t.Errorf("Expected chunk without web source to have empty URI, got %+v", resp.Citations[1])
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Expected 30 tokens, got %d", resp.TokensUsed)
	}
}

func TestGeminiProvider_Generate_MaxTokens(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiGroundedBody))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/", MaxTokens: 512})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "predict"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "predict", MaxTokens: 64}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(bodies))
	}
	if !strings.Contains(bodies[0], `"maxOutputTokens":512`) {
		t.Errorf("Expected configured max tokens in request, got %s", bodies[0])
	}
	if !strings.Contains(bodies[1], `"maxOutputTokens":64`) {
		t.Errorf("Expected request max tokens to win, got %s", bodies[1])
	}
}

func TestGeminiProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"},
		})
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "bad-key", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "x"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(Config{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGroundingCitations_MissingLevels(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil candidate", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil}}},
		{"no metadata", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"no chunks", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{GroundingMetadata: &genai.GroundingMetadata{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groundingCitations(tt.resp)
			if got == nil {
				t.Fatal("Expected empty slice, got nil")
			}
			if len(got) != 0 {
				t.Errorf("Expected no citations, got %v", got)
			}
		})
	}
}
