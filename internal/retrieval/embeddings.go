package retrieval

import (
	"context"
)

var (
	_ Embeddings    = (*ServiceEmbeddings)(nil)
	_ BaseEmbedding = (*ServiceEmbeddings)(nil)
)

// ServiceEmbeddings exposes the hosted embedding service through both embedding contracts.
type ServiceEmbeddings struct {
	client EmbeddingClient
}

func NewServiceEmbeddings(client EmbeddingClient) *ServiceEmbeddings {
	return &ServiceEmbeddings{client: client}
}

func (e *ServiceEmbeddings) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.client.EmbedTexts(ctx, texts)
}

func (e *ServiceEmbeddings) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.client.EmbedQuery(ctx, text)
}

func (e *ServiceEmbeddings) GetQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return e.client.EmbedQuery(ctx, query)
}

func (e *ServiceEmbeddings) GetTextEmbedding(ctx context.Context, text string) ([]float32, error) {
	return e.client.EmbedText(ctx, text)
}

func (e *ServiceEmbeddings) GetTextEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.client.EmbedTexts(ctx, texts)
}
