package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env files are picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.NoError(t, cfg.EnvFileErr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "openai", cfg.LLMCfg.Provider)
	assert.Equal(t, "sk-test", cfg.LLMCfg.APIKey)
	assert.Equal(t, "/embedding", cfg.EmbeddingCfg.Endpoint)
	assert.Equal(t, "sfr_embedding_mistral", cfg.EmbeddingCfg.ModelID)
	assert.Equal(t, "mistral-instruct", cfg.RerankCfg.Model)
	assert.Equal(t, 3, cfg.RerankCfg.TopN)
	assert.Equal(t, uint(1), cfg.EmbeddingCfg.Retry.Attempts)
	assert.Equal(t, 2*time.Hour, cfg.ChatCfg.SessionTTL)
	assert.Contains(t, cfg.Personas, "motivator")
	assert.Contains(t, cfg.Personas, "echo")
}

func TestLoadConfig_ExplicitKeyWins(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("LLM_API_KEY", "sk-explicit")

	cfg, err := LoadConfig("local")
	require.NoError(t, err)
	assert.Equal(t, "sk-explicit", cfg.LLMCfg.APIKey)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"), []byte("EMBEDDING_SERVICE_URL=https://embed.example\nRERANK_TOP_N=7\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("EMBEDDING_SERVICE_URL")
		_ = os.Unsetenv("RERANK_TOP_N")
	})

	cfg, err := LoadConfig("staging")
	require.NoError(t, err)
	assert.Equal(t, "https://embed.example", cfg.EmbeddingCfg.Url)
	assert.Equal(t, 7, cfg.RerankCfg.TopN)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad log level", "LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"bad provider", "LLM_PROVIDER", "gemini", "LLM_PROVIDER"},
		{"bad temperature", "LLM_TEMPERATURE", "3", "LLM_TEMPERATURE"},
		{"bad top n", "RERANK_TOP_N", "0", "RERANK_TOP_N"},
		{"zero retry attempts", "EMBEDDING_RETRY_ATTEMPTS", "0", "EMBEDDING_RETRY_ATTEMPTS"},
		{"unknown persona", "CHAT_PERSONA", "pirate", "unknown chat persona"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig("local")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_ValidateServices(t *testing.T) {
	cfg := &Config{LLMCfg: LLMConfig{Provider: "openai"}}
	err := cfg.ValidateServices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDDING_SERVICE_URL")
	assert.Contains(t, err.Error(), "RERANK_SERVICE_URL")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is not set")

	cfg.EnableMocks = true
	assert.NoError(t, cfg.ValidateServices())

	cfg.EnableMocks = false
	cfg.EmbeddingCfg.Url = "http://embed"
	cfg.RerankCfg.Url = "http://rerank"
	assert.NoError(t, cfg.ValidateRetrieval())
	assert.ErrorContains(t, cfg.ValidateServices(), "OPENAI_API_KEY")

	cfg = &Config{LLMCfg: LLMConfig{Provider: "ollama"}}
	cfg.EmbeddingCfg.Url = "http://embed"
	cfg.RerankCfg.Url = "http://rerank"
	assert.NoError(t, cfg.ValidateServices())
}

func TestConfig_ValidateChatBot(t *testing.T) {
	cfg := &Config{
		LLMCfg:   LLMConfig{Provider: "openai"},
		ChatCfg:  ChatConfig{Persona: "motivator"},
		Personas: DefaultPersonas(),
	}
	assert.EqualError(t, cfg.ValidateChatBot(), "TELEGRAM_BOT_TOKEN is not set")

	cfg.TelegramCfg.BotToken = "123:abc"
	assert.EqualError(t, cfg.ValidateChatBot(), "OPENAI_API_KEY is not set")

	cfg.ChatCfg.Persona = "echo"
	assert.NoError(t, cfg.ValidateChatBot())
}

func TestLoadPersonas_MergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	content := `
personas:
  tutor:
    system_prompt: "You explain retrieval-augmented generation patiently."
    greeting: "Ready to learn?"
  echo:
    greeting: "Echo ready."
    responder: echo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	personas, err := loadPersonas(path)
	require.NoError(t, err)

	assert.Equal(t, ResponderLLM, personas["tutor"].Responder)
	assert.Equal(t, "Ready to learn?", personas["tutor"].Greeting)
	assert.Equal(t, "Echo ready.", personas["echo"].Greeting)
	assert.Equal(t, "Hello there!  How are you?", personas["motivator"].Greeting)
}

func TestLoadPersonas_Invalid(t *testing.T) {
	dir := t.TempDir()

	badResponder := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badResponder, []byte("personas:\n  x:\n    greeting: hi\n    responder: magic\n"), 0o600))
	_, err := loadPersonas(badResponder)
	assert.ErrorContains(t, err, "unknown responder")

	noGreeting := filepath.Join(dir, "nogreeting.yaml")
	require.NoError(t, os.WriteFile(noGreeting, []byte("personas:\n  x:\n    system_prompt: hi\n"), 0o600))
	_, err = loadPersonas(noGreeting)
	assert.ErrorContains(t, err, "greeting is required")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("personas: [\n"), 0o600))
	_, err = loadPersonas(broken)
	assert.ErrorContains(t, err, "parse personas YAML")
}

func TestLoadPersonas_MissingFileUsesDefaults(t *testing.T) {
	personas, err := loadPersonas(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPersonas(), personas)
}
