package inference

import (
	"context"
	"encoding/json"

	"github.com/futig/genai-toolkit/internal/entity"
)

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever queries the hosted index and returns its answer untouched
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) (json.RawMessage, error)
}

type Reranker interface {
	Rerank(ctx context.Context, query string, documents []entity.Document, topN int, model string) (*entity.RerankResponse, error)
}
