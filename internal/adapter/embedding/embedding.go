// Package embedding selects the embedding backend used by the vector
// store.
package embedding

import (
	"fmt"
	"os"
	"strings"

	chromem "github.com/philippgille/chromem-go"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderCompat = "openai-compat"
)

// New returns the embedding function for the configured provider.
// Ollama needs no API key; the other providers read theirs from the
// environment variable named by apiKeyEnv.
func New(provider, model, baseURL, apiKeyEnv string) (chromem.EmbeddingFunc, error) {
	switch strings.ToLower(provider) {
	case "", ProviderOllama:
		return chromem.NewEmbeddingFuncOllama(model, baseURL), nil

	case ProviderOpenAI:
		apiKey := os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
		}
		return chromem.NewEmbeddingFuncOpenAI(apiKey, chromem.EmbeddingModelOpenAI(model)), nil

	case ProviderCompat:
		if baseURL == "" {
			return nil, fmt.Errorf("embedding provider %q requires a base URL", provider)
		}
		apiKey := os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
		}
		return chromem.NewEmbeddingFuncOpenAICompat(baseURL, apiKey, model, nil), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}
