// Package llm provides the generative answer service: provider clients and
// a Responder that turns a grounded chat turn into a completion request.
package llm

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no LLM provider is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// SelectClient picks a provider from the available keys, preferring
// preferred when its key is set. It returns ErrNoProvider when no key is set.
func SelectClient(preferred Provider, anthropicKey, openAIKey string) (Client, error) {
	switch {
	case preferred == ProviderOpenAI && openAIKey != "":
		return NewOpenAIClient(openAIKey)
	case anthropicKey != "":
		return NewAnthropicClient(anthropicKey)
	case openAIKey != "":
		return NewOpenAIClient(openAIKey)
	default:
		return nil, ErrNoProvider
	}
}
