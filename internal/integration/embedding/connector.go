package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/integration/common"
	pkghttp "github.com/futig/genai-toolkit/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the hosted embedding service.
type Connector struct {
	config    config.EmbeddingConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewServiceConnector("embedding", cfg.HTTPClientConfig, cfg.Retry, logger),
		config:    cfg,
		logger:    logger,
	}
}

// EmbedQuery embeds a search query
func (c *Connector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embedOne(ctx, text, true)
}

// EmbedText embeds a single document
func (c *Connector) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return c.embedOne(ctx, text, false)
}

// EmbedTexts embeds documents in one request, preserving input order.
func (c *Connector) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	ctxzap.Debug(ctx, "embedding documents", zap.Int("count", len(texts)))

	raw, err := c.embed(ctx, texts, false)
	if err != nil {
		return nil, err
	}

	var vectors [][]float32
	if err := json.Unmarshal(raw, &vectors); err != nil {
		return nil, fmt.Errorf("decode batch embedding: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(vectors), len(texts))
	}

	return vectors, nil
}

// Retrieve asks the service's search endpoint for the topK passages closest to query.
// The answer is returned as the service sent it.
func (c *Connector) Retrieve(ctx context.Context, query string, topK int) (json.RawMessage, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topk must be positive, got %d", entity.ErrInvalidParameter, topK)
	}

	ctxzap.Info(ctx, "retrieving passages", zap.Int("topk", topK))

	req := &entity.RetrieveRequest{
		Text:    query,
		ModelID: c.config.ModelID,
		TopK:    strconv.Itoa(topK),
	}

	var resp json.RawMessage
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.RetrieveEndpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("retrieve failed: %w", err)
	}

	return resp, nil
}

func (c *Connector) embedOne(ctx context.Context, text string, isQuery bool) ([]float32, error) {
	raw, err := c.embed(ctx, text, isQuery)
	if err != nil {
		return nil, err
	}

	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}

	return vector, nil
}

func (c *Connector) embed(ctx context.Context, text any, isQuery bool) (json.RawMessage, error) {
	req := &entity.EmbeddingRequest{
		Text:    text,
		ModelID: c.config.ModelID,
		IsQuery: entity.BoolFlag(isQuery),
	}

	var resp entity.EmbeddingResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("invalid embedding response: missing embedding field")
	}

	return resp.Embedding, nil
}
