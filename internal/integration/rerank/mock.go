package rerank

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector scores passages by how many query words they share.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Rerank(
	ctx context.Context, query string, documents []entity.Document, topN int, model string,
) (*entity.RerankResponse, error) {
	if err := ValidateRequest(topN, model); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "[MOCK] reranking passages", zap.Int("passages", len(documents)))

	queryWords := words(query)
	passages := make([]entity.RerankedPassage, 0, len(documents))
	for i, doc := range documents {
		var overlap int
		for w := range words(doc.Text) {
			if _, ok := queryWords[w]; ok {
				overlap++
			}
		}

		score := 0.0
		if len(queryWords) > 0 {
			score = float64(overlap) / float64(len(queryWords))
		}
		passages = append(passages, entity.RerankedPassage{Passage: doc.Text, Index: i, Score: score})
	}

	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})

	return BuildResponse(passages, topN), nil
}

func words(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = struct{}{}
	}
	return set
}
