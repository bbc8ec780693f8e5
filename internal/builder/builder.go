package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/genai-toolkit/internal/api"
	chatapi "github.com/futig/genai-toolkit/internal/api/chat"
	extractapi "github.com/futig/genai-toolkit/internal/api/extract"
	inferenceapi "github.com/futig/genai-toolkit/internal/api/inference"
	"github.com/futig/genai-toolkit/internal/chat"
	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/extract"
	pkgLogger "github.com/futig/genai-toolkit/internal/pkg/logger"
	"github.com/futig/genai-toolkit/internal/retrieval"
	"github.com/futig/genai-toolkit/internal/telegram"
	pkgHTTP "github.com/futig/genai-toolkit/pkg/http"
	"go.uber.org/zap"
)

// downloadTimeout bounds fetching one chat attachment.
const downloadTimeout = 60 * time.Second

// Toolkit bundles the retrieval adapters used by the command line tools
type Toolkit struct {
	Embeddings *retrieval.ServiceEmbeddings
	Reranker   *retrieval.ServiceRerank
	Logger     *zap.Logger
}

func setupLogger(level string) (*zap.Logger, error) {
	return pkgLogger.New(level)
}

func loadConfig(environment string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.EnvFileErr != nil {
		logger.Warn("Could not read env file", zap.Error(cfg.EnvFileErr))
	}

	return cfg, logger, nil
}

func newChatService(cfg *config.Config, logger *zap.Logger) (*chat.Service, error) {
	persona := cfg.Personas[cfg.ChatCfg.Persona]

	completer, err := newCompleter(cfg, persona, logger)
	if err != nil {
		return nil, err
	}

	storage := chat.NewCacheStorage(cfg.ChatCfg.SessionTTL)
	logger.Info("Chat service initialized",
		zap.String("persona", cfg.ChatCfg.Persona),
		zap.Duration("session_ttl", cfg.ChatCfg.SessionTTL),
	)

	return chat.NewService(storage, completer, cfg.ChatCfg.Persona, persona), nil
}

// Build creates the HTTP service
func Build(environment string) (*App, error) {
	cfg, logger, err := loadConfig(environment)
	if err != nil {
		return nil, err
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	if err := cfg.ValidateServices(); err != nil {
		return nil, err
	}

	logConnectorMode(cfg, logger)
	embedder := newEmbeddingConnector(cfg, logger)
	reranker := newRerankConnector(cfg, logger)

	chatService, err := newChatService(cfg, logger)
	if err != nil {
		return nil, err
	}

	handlers := api.Handlers{
		Extract:   extractapi.NewHandler(extract.NewExtractor(extract.DefaultRules())),
		Inference: inferenceapi.NewHandler(embedder, embedder, reranker, cfg.RerankCfg.TopN, cfg.RerankCfg.Model),
		Chat:      chatapi.NewHandler(chatService),
	}
	logger.Info("API handlers initialized")

	router := api.SetupRouter(handlers, cfg.RequestTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildChatBot creates and initializes the Telegram bot
func BuildChatBot(environment string) (telegram.Bot, *zap.Logger, error) {
	cfg, logger, err := loadConfig(environment)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
		zap.String("persona", cfg.ChatCfg.Persona),
	)

	if err := cfg.ValidateChatBot(); err != nil {
		return nil, nil, err
	}

	logConnectorMode(cfg, logger)

	chatService, err := newChatService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	downloader := pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{
			Logger: logger.Named("telegram-files"),
			Retry:  cfg.TelegramCfg.DownloadRetry.ToRetryOptions(),
		},
		pkgHTTP.WithRequestTimeout(downloadTimeout),
		pkgHTTP.WithRequestLogging(),
	)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, chatService, downloader, cfg.ChatCfg.MaxAttachmentSize, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// BuildToolkit creates the embedding and rerank adapters for one-shot commands.
// topN overrides the configured rerank depth when positive.
func BuildToolkit(environment string, topN int) (*Toolkit, error) {
	cfg, logger, err := loadConfig(environment)
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateRetrieval(); err != nil {
		return nil, err
	}

	logConnectorMode(cfg, logger)

	if topN <= 0 {
		topN = cfg.RerankCfg.TopN
	}

	reranker, err := retrieval.NewServiceRerank(
		newRerankConnector(cfg, logger),
		retrieval.WithTopN(topN),
		retrieval.WithModel(cfg.RerankCfg.Model),
		retrieval.WithCallbackManager(retrieval.NewCallbackManager(retrieval.LoggingHandler{})),
	)
	if err != nil {
		return nil, fmt.Errorf("create reranker: %w", err)
	}

	return &Toolkit{
		Embeddings: retrieval.NewServiceEmbeddings(newEmbeddingConnector(cfg, logger)),
		Reranker:   reranker,
		Logger:     logger,
	}, nil
}
