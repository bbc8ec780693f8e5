package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/genai-toolkit/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	// RequestTimeout bounds one API request, completions included.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"150s"`

	// External service configurations
	LLMCfg       LLMConfig       `envPrefix:"LLM_"`
	EmbeddingCfg EmbeddingConfig `envPrefix:"EMBEDDING_"`
	RerankCfg    RerankConfig    `envPrefix:"RERANK_"`

	// Chat front-end configuration
	ChatCfg     ChatConfig     `envPrefix:"CHAT_"`
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Persona prompts (loaded from YAML file or built-in defaults)
	Personas map[string]Persona

	// Environment (set by the caller, not from env var)
	Environment string

	// EnvFileErr is kept so the caller can log it once a logger exists.
	EnvFileErr error
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// LLMConfig selects the completion provider
type LLMConfig struct {
	Provider    string  `env:"PROVIDER" envDefault:"openai"`
	Model       string  `env:"MODEL" envDefault:"gpt-4-turbo-preview"`
	Temperature float32 `env:"TEMPERATURE" envDefault:"0.5"`
	// APIKey falls back to OPENAI_API_KEY, the variable the hosted API documents.
	APIKey  string        `env:"API_KEY"`
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"120s"`
}

type EmbeddingConfig struct {
	HTTPClientConfig
	Endpoint         string               `env:"ENDPOINT" envDefault:"/embedding"`
	RetrieveEndpoint string               `env:"RETRIEVE_ENDPOINT" envDefault:"/xgen_banking_retrieve"`
	ModelID          string               `env:"MODEL_ID" envDefault:"sfr_embedding_mistral"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type RerankConfig struct {
	HTTPClientConfig
	Endpoint string               `env:"ENDPOINT" envDefault:"/rerank"`
	Model    string               `env:"MODEL" envDefault:"mistral-instruct"`
	TopN     int                  `env:"TOP_N" envDefault:"3"`
	Retry    pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// ChatConfig configures the conversational front-ends
type ChatConfig struct {
	Persona      string        `env:"PERSONA" envDefault:"motivator"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	PersonasFile string        `env:"PERSONAS_FILE" envDefault:"personas.yaml"`
	// MaxAttachmentSize bounds uploaded files read into the conversation.
	MaxAttachmentSize int64 `env:"MAX_ATTACHMENT_SIZE" envDefault:"1048576"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	// DownloadRetry applies to fetching uploaded files from Telegram.
	DownloadRetry pkgRetry.RetryConfig `envPrefix:"DOWNLOAD_RETRY_"`
}

type rawEnv struct {
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

// LoadConfig reads .env.<environment> (when present) and the process environment.
func LoadConfig(environment string) (*Config, error) {
	if environment == "" {
		environment = "local"
	}

	envFile := getEnvFile(environment)
	// In containerized/prod environments variables are usually set externally.
	envFileErr := godotenv.Load(envFile)
	if errors.Is(envFileErr, fs.ErrNotExist) {
		envFileErr = nil
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	if cfg.LLMCfg.APIKey == "" {
		cfg.LLMCfg.APIKey = raw.OpenAIAPIKey
	}

	cfg.Environment = environment
	cfg.EnvFileErr = envFileErr

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	personas, err := loadPersonas(cfg.ChatCfg.PersonasFile)
	if err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}
	cfg.Personas = personas

	if _, ok := cfg.Personas[cfg.ChatCfg.Persona]; !ok {
		return nil, fmt.Errorf("unknown chat persona %q", cfg.ChatCfg.Persona)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}

	switch cfg.LLMCfg.Provider {
	case "openai", "ollama":
	default:
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER must be openai or ollama, got %q", cfg.LLMCfg.Provider))
	}

	if cfg.LLMCfg.Temperature < 0 || cfg.LLMCfg.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("LLM_TEMPERATURE must be between 0 and 2, got %v", cfg.LLMCfg.Temperature))
	}

	if cfg.RerankCfg.TopN < 1 {
		errs = append(errs, fmt.Sprintf("RERANK_TOP_N must be positive, got %d", cfg.RerankCfg.TopN))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("SERVER_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout))
	}

	if cfg.ChatCfg.SessionTTL <= 0 {
		errs = append(errs, fmt.Sprintf("CHAT_SESSION_TTL must be positive, got %s", cfg.ChatCfg.SessionTTL))
	}

	for name, retryCfg := range map[string]pkgRetry.RetryConfig{
		"EMBEDDING": cfg.EmbeddingCfg.Retry,
		"RERANK":    cfg.RerankCfg.Retry,
	} {
		if retryCfg.Attempts < 1 {
			errs = append(errs, fmt.Sprintf("%s_RETRY_ATTEMPTS must be at least 1, got %d", name, retryCfg.Attempts))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// ValidateServices checks what the HTTP services need before connectors are built.
func (c *Config) ValidateServices() error {
	return c.validateServices(true)
}

// ValidateRetrieval checks the embedding and rerank services only.
func (c *Config) ValidateRetrieval() error {
	return c.validateServices(false)
}

func (c *Config) validateServices(withLLM bool) error {
	if c.EnableMocks {
		return nil
	}

	var errs []string
	if c.EmbeddingCfg.Url == "" {
		errs = append(errs, "EMBEDDING_SERVICE_URL is not set")
	}
	if c.RerankCfg.Url == "" {
		errs = append(errs, "RERANK_SERVICE_URL is not set")
	}
	if withLLM && c.LLMCfg.Provider == "openai" && c.LLMCfg.APIKey == "" {
		errs = append(errs, "OPENAI_API_KEY is not set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ValidateChatBot checks what the Telegram front-end needs.
func (c *Config) ValidateChatBot() error {
	if c.TelegramCfg.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}

	persona := c.Personas[c.ChatCfg.Persona]
	if persona.Responder == ResponderLLM && !c.EnableMocks &&
		c.LLMCfg.Provider == "openai" && c.LLMCfg.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
