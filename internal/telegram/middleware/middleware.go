// Package middleware wraps Telegram update handling with rate limiting, logging and panic recovery.
package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers messages to Telegram. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// HandlerFunc processes one update.
type HandlerFunc func(ctx context.Context, update tgbotapi.Update)

// Middleware runs around a HandlerFunc and decides whether to call next.
type Middleware interface {
	Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc)
}

// Chain wraps h so that the first middleware runs outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		h = func(ctx context.Context, update tgbotapi.Update) {
			mw.Handle(ctx, update, next)
		}
	}
	return h
}

// updateIDs extracts the user and chat an update belongs to. Zero values mean unknown.
func updateIDs(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if update.Message.Chat != nil {
			chatID = update.Message.Chat.ID
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	return userID, chatID
}
