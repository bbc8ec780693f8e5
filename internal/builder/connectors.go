package builder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/integration/embedding"
	"github.com/futig/genai-toolkit/internal/integration/llm"
	"github.com/futig/genai-toolkit/internal/integration/rerank"
	"go.uber.org/zap"
)

// EmbeddingConnector is what the API and the retrieval adapters need from the embedding service
type EmbeddingConnector interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Retrieve(ctx context.Context, query string, topK int) (json.RawMessage, error)
}

// RerankConnector ranks passages against a query
type RerankConnector interface {
	Rerank(ctx context.Context, query string, documents []entity.Document, topN int, model string) (*entity.RerankResponse, error)
}

func newEmbeddingConnector(cfg *config.Config, logger *zap.Logger) EmbeddingConnector {
	if cfg.EnableMocks {
		return embedding.NewMockConnector(logger)
	}
	return embedding.NewConnector(cfg.EmbeddingCfg, logger)
}

func newRerankConnector(cfg *config.Config, logger *zap.Logger) RerankConnector {
	if cfg.EnableMocks {
		return rerank.NewMockConnector(logger)
	}
	return rerank.NewConnector(cfg.RerankCfg, logger)
}

// newCompleter returns nil for personas that never call a model.
func newCompleter(cfg *config.Config, persona config.Persona, logger *zap.Logger) (llm.Completer, error) {
	if persona.Responder != config.ResponderLLM {
		return nil, nil
	}
	if cfg.EnableMocks {
		return llm.NewMockConnector(logger), nil
	}

	completer, err := llm.NewClient(cfg.LLMCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	return completer, nil
}

func logConnectorMode(cfg *config.Config, logger *zap.Logger) {
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		return
	}
	logger.Info("Using real connectors for external services",
		zap.String("llm_provider", cfg.LLMCfg.Provider),
		zap.String("embedding_url", cfg.EmbeddingCfg.Url),
		zap.String("rerank_url", cfg.RerankCfg.Url),
	)
}
