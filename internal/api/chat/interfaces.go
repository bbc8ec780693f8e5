package chat

import (
	"context"

	"github.com/futig/genai-toolkit/internal/entity"
)

type ChatService interface {
	Start(ctx context.Context, sessionID string) (string, error)
	Session(ctx context.Context, sessionID string) (*entity.ChatSession, error)
	HandleMessage(ctx context.Context, sessionID string, msg entity.IncomingMessage) ([]string, error)
}
