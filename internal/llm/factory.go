package llm

import (
	"fmt"
	"os"
	"strings"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini", "google", "":
		return NewGeminiProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, anthropic, openai, ollama)", config.Provider)
	}
}

// APIKeyEnv returns the environment variables consulted for a provider's key,
// in priority order. Ollama needs none.
func APIKeyEnv(provider string) []string {
	switch strings.ToLower(provider) {
	case "gemini", "google", "":
		return []string{"GEMINI_API_KEY", "API_KEY"}
	case "anthropic", "claude":
		return []string{"ANTHROPIC_API_KEY"}
	case "openai":
		return []string{"OPENAI_API_KEY"}
	default:
		return nil
	}
}

// LoadAPIKeyFromEnv fills config.APIKey from the environment when unset.
// Returns ErrMissingAPIKey if the provider needs a key and none is found.
func LoadAPIKeyFromEnv(config *Config) error {
	envs := APIKeyEnv(config.Provider)
	if len(envs) == 0 || config.APIKey != "" {
		return nil
	}

	for _, env := range envs {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			config.APIKey = v
			return nil
		}
	}

	return fmt.Errorf("%w: %s environment variable not set", ErrMissingAPIKey, envs[0])
}
