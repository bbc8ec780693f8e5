package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockDimensions is the length of vectors produced by MockConnector.
const MockDimensions = 16

// MockConnector returns deterministic vectors derived from the input text.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding query")
	return mockVector("query:" + text), nil
}

func (m *MockConnector) EmbedText(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding text")
	return mockVector("text:" + text), nil
}

func (m *MockConnector) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding documents", zap.Int("count", len(texts)))

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vectors = append(vectors, mockVector("text:"+text))
	}
	return vectors, nil
}

func (m *MockConnector) Retrieve(ctx context.Context, query string, topK int) (json.RawMessage, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topk must be positive, got %d", entity.ErrInvalidParameter, topK)
	}

	ctxzap.Info(ctx, "[MOCK] retrieving passages", zap.Int("topk", topK))

	return json.Marshal(map[string]any{
		"query":     query,
		"topk":      topK,
		"documents": []string{},
	})
}

func mockVector(seed string) []float32 {
	vector := make([]float32, MockDimensions)
	for i := range vector {
		h := fnv.New32a()
		_, _ = fmt.Fprintf(h, "%d:%s", i, seed)
		vector[i] = float32(h.Sum32()%2000)/1000 - 1
	}
	return vector
}
