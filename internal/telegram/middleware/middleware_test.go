package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var ctx = context.Background()

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(userID, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestRateLimiter_AllowsUpToLimitThenWarnsOnce(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(3, zap.NewNop(), sender)
	defer rl.Close()

	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	var handled int
	for i := 0; i < 5; i++ {
		rl.Handle(ctx, textUpdate(1, 10, "hi"), func(context.Context, tgbotapi.Update) { handled++ })
	}

	assert.Equal(t, 3, handled)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(10), sender.sent[0].ChatID)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiterMiddleware(60, zap.NewNop(), &fakeSender{})
	defer rl.Close()

	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	var handled int
	for i := 0; i < 61; i++ {
		rl.Handle(ctx, textUpdate(1, 10, "hi"), func(context.Context, tgbotapi.Update) { handled++ })
	}
	assert.Equal(t, 60, handled)

	current = current.Add(2 * time.Second)
	rl.Handle(ctx, textUpdate(1, 10, "hi"), func(context.Context, tgbotapi.Update) { handled++ })
	assert.Equal(t, 61, handled)
}

func TestRateLimiter_UsersAreIndependent(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, zap.NewNop(), &fakeSender{})
	defer rl.Close()

	var handled int
	rl.Handle(ctx, textUpdate(1, 10, "a"), func(context.Context, tgbotapi.Update) { handled++ })
	rl.Handle(ctx, textUpdate(1, 10, "b"), func(context.Context, tgbotapi.Update) { handled++ })
	rl.Handle(ctx, textUpdate(2, 20, "c"), func(context.Context, tgbotapi.Update) { handled++ })

	assert.Equal(t, 2, handled)
}

func TestRateLimiter_SweepForgetsInactiveUsers(t *testing.T) {
	rl := NewRateLimiterMiddleware(5, zap.NewNop(), &fakeSender{})
	defer rl.Close()

	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }
	rl.Handle(ctx, textUpdate(1, 10, "a"), func(context.Context, tgbotapi.Update) {})

	current = current.Add(2 * time.Hour)
	rl.sweep()
	assert.Empty(t, rl.limits)
}

func TestRateLimiter_PassesUnknownUpdates(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, zap.NewNop(), &fakeSender{})
	defer rl.Close()

	var handled int
	for i := 0; i < 3; i++ {
		rl.Handle(ctx, tgbotapi.Update{UpdateID: i}, func(context.Context, tgbotapi.Update) { handled++ })
	}
	assert.Equal(t, 3, handled)
}

func TestRecovery_RecoversAndNotifies(t *testing.T) {
	sender := &fakeSender{}
	m := NewRecoveryMiddleware(sender)

	assert.NotPanics(t, func() {
		m.Handle(ctx, textUpdate(1, 10, "boom"), func(context.Context, tgbotapi.Update) { panic("handler exploded") })
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgPanic, sender.sent[0].Text)
}

func TestLogging_PutsUpdateLoggerInContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := ctxzap.ToContext(ctx, zap.New(core))

	var called bool
	NewLoggingMiddleware().Handle(base, textUpdate(1, 10, "hi"), func(ctx context.Context, _ tgbotapi.Update) {
		called = true
		ctxzap.Info(ctx, "inside handler")
	})
	assert.True(t, called)

	inside := logs.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	assert.Equal(t, int64(10), inside[0].ContextMap()["chat_id"])
	assert.Equal(t, 1, logs.FilterMessage("telegram update received").Len())
	assert.Equal(t, 1, logs.FilterMessage("telegram update processed").Len())
}

func TestChain_RunsMiddlewaresInOrder(t *testing.T) {
	var order []string
	h := Chain(func(context.Context, tgbotapi.Update) { order = append(order, "handler") },
		recordingMiddleware{name: "first", order: &order},
		recordingMiddleware{name: "second", order: &order},
	)

	h(ctx, textUpdate(1, 10, "hi"))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestChain_RateLimitStopsBeforeRecovery(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(1, zap.NewNop(), sender)
	defer rl.Close()

	var handled int
	h := Chain(func(context.Context, tgbotapi.Update) { handled++ }, rl, NewLoggingMiddleware(), NewRecoveryMiddleware(sender))

	h(ctx, textUpdate(1, 10, "a"))
	h(ctx, textUpdate(1, 10, "b"))
	assert.Equal(t, 1, handled)
}

type recordingMiddleware struct {
	name  string
	order *[]string
}

func (m recordingMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	*m.order = append(*m.order, m.name)
	next(ctx, update)
}
