package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futig/genai-toolkit/internal/chat"
	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/integration/llm"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []string
	updates chan tgbotapi.Update
	stopped bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return "https://files.example/" + fileID, nil
}

func (f *fakeAPI) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type fakeDownloader struct {
	data map[string][]byte
	err  error
}

func (f *fakeDownloader) Download(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[url], nil
}

func newTestBot(t *testing.T, persona string, downloader Downloader, maxFileSize int64) (*Bot, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	svc := chat.NewService(chat.NewCacheStorage(time.Hour), llm.NewMockConnector(zap.NewNop()),
		persona, config.DefaultPersonas()[persona])

	b := NewWithAPI(api, &config.TelegramConfig{
		UpdateTimeout:      1,
		RateLimitPerMinute: 60,
		ShutdownTimeout:    1,
	}, svc, downloader, maxFileSize, zap.NewNop())
	t.Cleanup(func() { _ = b.Stop() })

	return b, api
}

func command(chatID int64, cmd string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: chatID},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     "/" + cmd,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}},
	}}
}

func text(chatID int64, content string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: chatID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: content,
	}}
}

func document(chatID int64, fileID, name string, size int, caption string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: chatID},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Caption:  caption,
		Document: &tgbotapi.Document{FileID: fileID, FileName: name, FileSize: size},
	}}
}

func TestBot_StartSendsGreeting(t *testing.T) {
	b, api := newTestBot(t, "motivator", &fakeDownloader{}, 0)

	b.HandleUpdate(context.Background(), command(1, "start"))

	assert.Equal(t, []string{"Hello there!  How are you?"}, api.messages())
}

func TestBot_TextGoesThroughChatService(t *testing.T) {
	b, api := newTestBot(t, "motivator", &fakeDownloader{}, 0)
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "start"))
	b.HandleUpdate(ctx, text(1, "cheer me up"))

	assert.Equal(t, []string{"Hello there!  How are you?", "[MOCK] You said: cheer me up"}, api.messages())
}

func TestBot_EchoPersona(t *testing.T) {
	b, api := newTestBot(t, "echo", &fakeDownloader{}, 0)
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "start"))
	b.HandleUpdate(ctx, text(1, "revenue?"))

	assert.Equal(t, []string{"How can I help you about Meta's 2023 10K?", "Received: revenue?"}, api.messages())
}

func TestBot_DocumentBecomesAttachment(t *testing.T) {
	downloader := &fakeDownloader{data: map[string][]byte{"https://files.example/f1": []byte("notes")}}
	b, api := newTestBot(t, "motivator", downloader, 1024)

	b.HandleUpdate(context.Background(), document(1, "f1", "notes.txt", 5, "summarize"))

	assert.Equal(t, []string{"Uploaded file: notes.txt", "[MOCK] You said: summarize"}, api.messages())
}

func TestBot_DocumentTooLarge(t *testing.T) {
	b, api := newTestBot(t, "motivator", &fakeDownloader{}, 10)

	b.HandleUpdate(context.Background(), document(1, "f1", "big.txt", 11, ""))

	assert.Equal(t, []string{"File big.txt is too large (limit 10 bytes)."}, api.messages())
}

func TestBot_DocumentDownloadFailure(t *testing.T) {
	b, api := newTestBot(t, "motivator", &fakeDownloader{err: errors.New("timeout")}, 0)

	b.HandleUpdate(context.Background(), document(1, "f1", "a.txt", 1, ""))

	assert.Equal(t, []string{msgGeneric}, api.messages())
}

func TestBot_UnknownCommandAndEmptyMessage(t *testing.T) {
	b, api := newTestBot(t, "motivator", &fakeDownloader{}, 0)
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "dance"))
	b.HandleUpdate(ctx, text(1, ""))

	assert.Equal(t, []string{msgUnknownCommand, msgUnsupported}, api.messages())
}

func TestBot_ChatsAreSeparateSessions(t *testing.T) {
	assert.Equal(t, "tg:42", SessionID(42))
	assert.NotEqual(t, SessionID(1), SessionID(2))
}

func TestBot_StartAndStopProcessUpdates(t *testing.T) {
	b, api := newTestBot(t, "echo", &fakeDownloader{}, 0)

	require.NoError(t, b.Start(context.Background()))
	api.updates <- text(5, "ping")

	require.Eventually(t, func() bool {
		return len(api.messages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Received: ping", api.messages()[0])

	require.NoError(t, b.Stop())
	assert.True(t, api.stopped)
}
