package middleware

import (
	"context"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const msgPanic = "Something went wrong. Please try again or send /start."

// RecoveryMiddleware turns a handler panic into a log entry and an apology to the chat
type RecoveryMiddleware struct {
	sender Sender
}

func NewRecoveryMiddleware(sender Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{sender: sender}
}

func (m *RecoveryMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		ctxzap.Error(ctx, "panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
		)

		if _, chatID := updateIDs(update); chatID != 0 {
			if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, msgPanic)); err != nil {
				ctxzap.Error(ctx, "failed to send error message", zap.Error(err))
			}
		}
	}()

	next(ctx, update)
}
