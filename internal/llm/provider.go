package llm

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/ppiankov/pitchprophet/internal/model"
)

// systemPrompt is sent by providers that take a separate system message
const systemPrompt = "You are a football analyst. Answer with exactly the structure the user asks for and keep the field headers verbatim."

// ErrMissingAPIKey is returned when a provider that needs a credential has none
var ErrMissingAPIKey = errors.New("missing API key")

// Provider defines the interface for generative backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends one prompt and returns the model's text and citations
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest is the backend boundary input
type GenerateRequest struct {
	// Prompt is the full user prompt
	Prompt string

	// EnableSearch asks the backend to ground the answer with web search
	// when it supports it
	EnableSearch bool

	// Temperature is passed through as-is
	Temperature float64

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int
}

// GenerateResponse is the backend boundary output
type GenerateResponse struct {
	// Text is the raw model text, possibly empty
	Text string

	// Citations are grounding sources in backend order, not deduplicated
	Citations []model.CitationRecord

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption when the backend reports it
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "anthropic", "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests in seconds (0 = transport default)
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Model:    DefaultGeminiModel,
	}
}

// ConfigFromModel converts the application config to llm.Config
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxTokens:  cfg.LLM.MaxTokens,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"]+`)

// citationsFromText builds citation records from URLs mentioned in the text.
// Used by backends without server-side grounding metadata.
func citationsFromText(text string) []model.CitationRecord {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	citations := []model.CitationRecord{}
	for _, u := range matches {
		u = strings.TrimRight(u, ".,;:!?")
		if seen[u] {
			continue
		}
		seen[u] = true
		citations = append(citations, model.CitationRecord{URI: u})
	}
	return citations
}
