package rerank

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/integration/common"
	pkghttp "github.com/futig/genai-toolkit/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the hosted rerank service.
type Connector struct {
	config    config.RerankConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RerankConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewServiceConnector("rerank", cfg.HTTPClientConfig, cfg.Retry, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Rerank orders documents by relevance to query and keeps the first topN.
func (c *Connector) Rerank(
	ctx context.Context, query string, documents []entity.Document, topN int, model string,
) (*entity.RerankResponse, error) {
	if err := ValidateRequest(topN, model); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "reranking passages",
		zap.Int("passages", len(documents)),
		zap.Int("top_n", topN),
		zap.String("model", model),
	)

	req := &entity.RerankRequest{
		Query:     query,
		Passages:  Texts(documents),
		ModelName: model,
	}

	var resp entity.RerankServiceResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("rerank failed: %w", err)
	}

	result := BuildResponse(resp.RerankedPassages, topN)

	ctxzap.Info(ctx, "passages reranked", zap.Int("results", len(result.Results)))

	return result, nil
}
