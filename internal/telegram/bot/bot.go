package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/pkg/logger"
	"github.com/futig/genai-toolkit/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	msgUnknownCommand  = "Unknown command. Send /start to begin a new conversation."
	msgGeneric         = "Something went wrong. Please try again."
	msgUnsupported     = "Send text or a text file."
	msgAttachmentLarge = "File %s is too large (limit %d bytes)."
	msgHelp            = `/start - start a new conversation
/help - show this help

Send a message to chat. Text files you upload are added to the conversation.`
)

// ChatService runs conversations for the bot
type ChatService interface {
	Start(ctx context.Context, sessionID string) (string, error)
	HandleMessage(ctx context.Context, sessionID string, msg entity.IncomingMessage) ([]string, error)
}

// Downloader fetches uploaded files
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// API is the part of *tgbotapi.BotAPI the bot uses
type API interface {
	middleware.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetFileDirectURL(fileID string) (string, error)
}

// Bot represents the Telegram bot
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	chat        ChatService
	downloader  Downloader
	maxFileSize int64
	logger      *zap.Logger
	rateLimitMW *middleware.RateLimiterMiddleware
	handler     middleware.HandlerFunc
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New authorizes against Telegram and creates the bot
func New(
	cfg *config.TelegramConfig,
	chat ChatService,
	downloader Downloader,
	maxFileSize int64,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return NewWithAPI(api, cfg, chat, downloader, maxFileSize, logger), nil
}

// NewWithAPI creates the bot around an already authorized API
func NewWithAPI(
	api API,
	cfg *config.TelegramConfig,
	chat ChatService,
	downloader Downloader,
	maxFileSize int64,
	logger *zap.Logger,
) *Bot {
	b := &Bot{
		api:         api,
		cfg:         cfg,
		chat:        chat,
		downloader:  downloader,
		maxFileSize: maxFileSize,
		logger:      logger,
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, logger, api),
		stopChan:    make(chan struct{}),
	}
	b.handler = middleware.Chain(b.handleUpdate,
		b.rateLimitMW,
		middleware.NewLoggingMiddleware(),
		middleware.NewRecoveryMiddleware(api),
	)
	return b
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)

	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
		b.rateLimitMW.Close()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.HandleUpdate(ctx, u)
			}(update)
		}
	}
}

// HandleUpdate runs one update through rate limit, logging and recovery before routing it
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.handler(ctx, update)
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}

	message := update.Message
	sessionID := SessionID(message.Chat.ID)
	ctx = logger.AddFields(ctx, zap.String("session_id", sessionID))

	if message.IsCommand() {
		b.handleCommand(ctx, sessionID, message)
		return
	}

	b.handleMessage(ctx, sessionID, message)
}

func (b *Bot) handleCommand(ctx context.Context, sessionID string, message *tgbotapi.Message) {
	command := message.Command()
	ctxzap.Info(ctx, "command received", zap.String("command", command))

	switch command {
	case "start":
		greeting, err := b.chat.Start(logger.WithAction(ctx, "Start"), sessionID)
		if err != nil {
			ctxzap.Error(ctx, "failed to start session", zap.Error(err))
			b.sendText(ctx, message.Chat.ID, msgGeneric)
			return
		}
		b.sendText(ctx, message.Chat.ID, greeting)
	case "help":
		b.sendText(ctx, message.Chat.ID, msgHelp)
	default:
		b.sendText(ctx, message.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) handleMessage(ctx context.Context, sessionID string, message *tgbotapi.Message) {
	ctx = logger.WithAction(ctx, "HandleMessage")
	chatID := message.Chat.ID

	incoming := entity.IncomingMessage{Content: message.Text}

	if message.Document != nil {
		attachment, userMsg, err := b.fetchDocument(ctx, message.Document)
		if err != nil {
			ctxzap.Error(ctx, "failed to fetch document", zap.Error(err))
			b.sendText(ctx, chatID, msgGeneric)
			return
		}
		if userMsg != "" {
			b.sendText(ctx, chatID, userMsg)
			return
		}
		incoming.Content = message.Caption
		incoming.Attachments = append(incoming.Attachments, *attachment)
	}

	if incoming.Content == "" && len(incoming.Attachments) == 0 {
		b.sendText(ctx, chatID, msgUnsupported)
		return
	}

	replies, err := b.chat.HandleMessage(ctx, sessionID, incoming)
	if err != nil {
		ctxzap.Error(ctx, "failed to handle message", zap.Error(err))
		b.sendText(ctx, chatID, msgGeneric)
		return
	}

	for _, reply := range replies {
		b.sendText(ctx, chatID, reply)
	}
}

// fetchDocument downloads an uploaded file. A non-empty string is a refusal to show the user.
func (b *Bot) fetchDocument(ctx context.Context, doc *tgbotapi.Document) (*entity.Attachment, string, error) {
	if b.maxFileSize > 0 && int64(doc.FileSize) > b.maxFileSize {
		return nil, fmt.Sprintf(msgAttachmentLarge, doc.FileName, b.maxFileSize), nil
	}

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return nil, "", fmt.Errorf("get file URL: %w", err)
	}

	data, err := b.downloader.Download(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	if b.maxFileSize > 0 && int64(len(data)) > b.maxFileSize {
		return nil, fmt.Sprintf(msgAttachmentLarge, doc.FileName, b.maxFileSize), nil
	}

	return &entity.Attachment{Name: doc.FileName, Content: string(data)}, "", nil
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// SessionID maps a Telegram chat to a chat session
func SessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
