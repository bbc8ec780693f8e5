package middleware

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LoggingMiddleware gives every update its own context logger and logs its handling
type LoggingMiddleware struct{}

func NewLoggingMiddleware() *LoggingMiddleware {
	return &LoggingMiddleware{}
}

func (m *LoggingMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	start := time.Now()
	userID, chatID := updateIDs(update)

	updateLogger := ctxzap.Extract(ctx).With(
		zap.Int("update_id", update.UpdateID),
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
	)
	ctx = ctxzap.ToContext(ctx, updateLogger)

	updateLogger.Info("telegram update received", zap.String("type", updateKind(update)))

	next(ctx, update)

	updateLogger.Info("telegram update processed", zap.Duration("duration", time.Since(start)))
}

func updateKind(update tgbotapi.Update) string {
	switch {
	case update.Message == nil && update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case update.Message.Document != nil:
		return "document"
	case update.Message.Text != "":
		return "text"
	default:
		return "other"
	}
}
