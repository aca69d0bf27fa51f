package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/util"
	"google.golang.org/genai"
)

// DefaultGeminiModel is fast and supports Google Search grounding
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", ErrMissingAPIKey)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: util.NewHTTPClient(0, config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the provider is properly configured
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Models.Get(ctx, p.model(""), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gemini API check failed: %v\n", err)
		return false
	}
	return true
}

// Generate sends the prompt to Gemini, optionally with the Google Search tool
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	modelName := p.model(req.Model)

	temperature := float32(req.Temperature)
	genConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(maxTokens)
	}
	if req.EnableSearch {
		genConfig.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.config.Timeout)*time.Second)
		defer cancel()
	}

	resp, err := p.client.Models.GenerateContent(ctx, modelName, genai.Text(req.Prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	out := &GenerateResponse{
		Text:      resp.Text(),
		Citations: groundingCitations(resp),
		Model:     modelName,
	}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return out, nil
}

func (p *GeminiProvider) model(override string) string {
	if override != "" {
		return override
	}
	if p.config.Model != "" {
		return p.config.Model
	}
	return DefaultGeminiModel
}

// groundingCitations reads candidates[0].groundingMetadata.groundingChunks.
// Any missing level yields an empty list. Chunks without a web source are
// kept as records with an empty URI so order matches the backend's.
func groundingCitations(resp *genai.GenerateContentResponse) []model.CitationRecord {
	citations := []model.CitationRecord{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return citations
	}

	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return citations
	}

	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			citations = append(citations, model.CitationRecord{})
			continue
		}
		citations = append(citations, model.CitationRecord{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}

	return citations
}
