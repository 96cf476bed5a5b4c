package ai

import (
	"context"
	"fmt"
	"strings"
)

// Service is the text-generation collaborator. Implementations must be safe
// for concurrent use; the pipeline shares one instance across requests.
type Service interface {
	GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Provider enum
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenRouter Provider = "openrouter"
)

// NewService creates the appropriate AI service based on configuration.
func NewService(provider Provider, geminiKey, openRouterKey string) (Service, error) {
	switch provider {
	case ProviderGemini:
		if geminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiService(geminiKey), nil
	case ProviderOpenRouter:
		if openRouterKey == "" {
			return nil, fmt.Errorf("OpenRouter API key is required")
		}
		return NewOpenRouterService(openRouterKey), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", provider)
	}
}

// StripCodeFences removes a markdown code fence wrapper from a model
// response, if present. Models wrap JSON in ```json blocks despite
// instructions not to.
func StripCodeFences(response string) string {
	clean := strings.TrimSpace(response)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	}
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	if strings.HasSuffix(clean, "```") {
		clean = strings.TrimSuffix(clean, "```")
	}
	return strings.TrimSpace(clean)
}

// Helper function to check if error is timeout-related
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "Client.Timeout exceeded")
}
