package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/meguminnnnnnnnn/go-openai"
	"go.uber.org/zap"
)

// OpenAIConnector completes conversations through the OpenAI chat completions API.
type OpenAIConnector struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewOpenAIConnector(cfg config.LLMConfig, logger *zap.Logger) (*OpenAIConnector, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", entity.ErrMissingAPIKey)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIConnector{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Complete returns the content of the first choice.
func (o *OpenAIConnector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", entity.ErrEmptyMessages
	}

	ctxzap.Debug(ctx, "requesting chat completion",
		zap.String("provider", ProviderOpenAI),
		zap.String("model", o.model),
		zap.Int("messages", len(messages)),
	)

	temperature := o.temperature
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", entity.ErrNoCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []entity.ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case entity.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case entity.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}

		result = append(result, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return result
}
