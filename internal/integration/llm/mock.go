package llm

import (
	"context"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without calling any provider.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Complete echoes the latest user message.
func (m *MockConnector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", entity.ErrEmptyMessages
	}

	ctxzap.Info(ctx, "[MOCK] completing conversation", zap.Int("messages", len(messages)))

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == entity.RoleUser {
			return "[MOCK] You said: " + messages[i].Content, nil
		}
	}
	return "[MOCK] Hello!", nil
}
