package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	olla "github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaConnector completes conversations against a local Ollama server.
type OllamaConnector struct {
	client      *olla.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewOllamaConnector(cfg config.LLMConfig, logger *zap.Logger) (*OllamaConnector, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: cfg.Timeout,
	}

	return &OllamaConnector{
		client:      olla.NewClient(parsedURL, hc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

func (o *OllamaConnector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", entity.ErrEmptyMessages
	}

	ctxzap.Debug(ctx, "requesting chat completion",
		zap.String("provider", ProviderOllama),
		zap.String("model", o.model),
		zap.Int("messages", len(messages)),
	)

	chatMessages := make([]olla.Message, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, olla.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	stream := false
	var reply string
	var answered bool

	err := o.client.Chat(ctx, &olla.ChatRequest{
		Model:    o.model,
		Messages: chatMessages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": o.temperature,
		},
	}, func(resp olla.ChatResponse) error {
		reply += resp.Message.Content
		answered = true
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to chat with ollama: %w", err)
	}

	if !answered {
		return "", entity.ErrNoCompletion
	}

	return reply, nil
}
