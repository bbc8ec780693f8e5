package llm

import (
	"context"
	"fmt"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"go.uber.org/zap"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Completer turns a conversation into the next assistant reply.
type Completer interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}

// NewClient builds the completion client for the configured provider.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) (Completer, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIConnector(cfg, logger)
	case ProviderOllama:
		return NewOllamaConnector(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
