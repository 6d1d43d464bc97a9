package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Config holds embedder configuration
type Config struct {
	Provider  string
	APIKey    string
	CacheSize int
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	cache := NewCache(cfg.CacheSize)

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	case "":
		return newFromEnv(cache)
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
	}
}

// newFromEnv selects a provider based on environment variables.
// Priority:
// 1. CODENAV_EMBEDDING_PROVIDER (openai, local)
// 2. OPENAI_API_KEY present
// 3. Default to local
func newFromEnv(cache *Cache) (Embedder, error) {
	provider := strings.ToLower(os.Getenv("CODENAV_EMBEDDING_PROVIDER"))

	switch provider {
	case ProviderOpenAI:
		return NewOpenAIProvider("", cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	case "":
		// Auto-detect
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, provider)
	}

	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return NewOpenAIProvider("", cache)
	}

	return NewLocalProvider(cache)
}

// DetectProvider returns the provider that would be used based on current environment
func DetectProvider() string {
	provider := os.Getenv("CODENAV_EMBEDDING_PROVIDER")
	if provider != "" {
		return strings.ToLower(provider)
	}

	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}

	return ProviderLocal
}
