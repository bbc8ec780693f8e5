package retrieval

import (
	"context"

	"github.com/futig/genai-toolkit/internal/entity"
)

// Embeddings is the document/query embedding contract of chain-style frameworks.
type Embeddings interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// BaseEmbedding is the embedding contract of index-style frameworks.
type BaseEmbedding interface {
	GetQueryEmbedding(ctx context.Context, query string) ([]float32, error)
	GetTextEmbedding(ctx context.Context, text string) ([]float32, error)
	GetTextEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NodePostprocessor reorders or filters retrieved nodes.
type NodePostprocessor interface {
	PostprocessNodes(ctx context.Context, nodes []NodeWithScore, query *QueryBundle) ([]NodeWithScore, error)
}

type EmbeddingClient interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type RerankClient interface {
	Rerank(ctx context.Context, query string, documents []entity.Document, topN int, model string) (*entity.RerankResponse, error)
}

// CallbackHandler receives start and end events of instrumented operations.
type CallbackHandler interface {
	OnEventStart(ctx context.Context, event entity.CallbackEvent)
	OnEventEnd(ctx context.Context, event entity.CallbackEvent)
}
