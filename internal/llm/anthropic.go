package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/util"
	"github.com/tidwall/gjson"
)

// DefaultAnthropicModel supports the server-side web search tool
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicProvider implements the Provider interface for Anthropic Claude models
type AnthropicProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

// webSearchTool is Anthropic's server-side search tool
var webSearchTool = anthropicTool{
	Type:    "web_search_20250305",
	Name:    "web_search",
	MaxUses: 8,
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key is required", ErrMissingAPIKey)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	timeout := time.Duration(config.Timeout) * time.Second

	return &AnthropicProvider{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable checks if the provider is properly configured
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	req := anthropicRequest{
		Model:     "claude-3-5-haiku-20241022",
		MaxTokens: 10,
		Messages: []anthropicMessage{
			{Role: "user", Content: "Hi"},
		},
	}

	_, err := p.makeRequest(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Anthropic API check failed: %v\n", err)
		return false
	}
	return true
}

// Generate sends the prompt through the Messages API
func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = DefaultAnthropicModel
	}

	// The Messages API requires max_tokens
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 4096
	}

	apiReq := anthropicRequest{
		Model:     modelName,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
	}
	if req.EnableSearch {
		apiReq.Tools = []anthropicTool{webSearchTool}
	}

	body, err := p.makeRequest(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	resp := parseAnthropicBody(body)
	if resp.Model == "" {
		resp.Model = modelName
	}
	return resp, nil
}

// parseAnthropicBody concatenates all text blocks and collects the results
// of every web_search_tool_result block in order
func parseAnthropicBody(body []byte) *GenerateResponse {
	var text strings.Builder
	citations := []model.CitationRecord{}

	gjson.GetBytes(body, "content").ForEach(func(_, block gjson.Result) bool {
		switch block.Get("type").String() {
		case "text":
			text.WriteString(block.Get("text").String())
		case "web_search_tool_result":
			block.Get("content").ForEach(func(_, result gjson.Result) bool {
				if result.Get("type").String() == "web_search_result" {
					citations = append(citations, model.CitationRecord{
						URI:   result.Get("url").String(),
						Title: result.Get("title").String(),
					})
				}
				return true
			})
		}
		return true
	})

	usage := gjson.GetBytes(body, "usage")

	return &GenerateResponse{
		Text:       strings.TrimSpace(text.String()),
		Citations:  citations,
		Model:      gjson.GetBytes(body, "model").String(),
		TokensUsed: int(usage.Get("input_tokens").Int() + usage.Get("output_tokens").Int()),
	}
}

// makeRequest makes an HTTP request to the Anthropic API and returns the raw body
func (p *AnthropicProvider) makeRequest(ctx context.Context, apiReq anthropicRequest) ([]byte, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/messages", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(respBody, "error.message"); msg.Exists() {
			return nil, fmt.Errorf("API error (%d): %s - %s", httpResp.StatusCode, gjson.GetBytes(respBody, "error.type").String(), msg.String())
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("unmarshal response: invalid JSON")
	}

	return respBody, nil
}
