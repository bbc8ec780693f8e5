package rerank

import (
	"fmt"

	"github.com/futig/genai-toolkit/internal/entity"
)

// ValidateRequest rejects what the hosted service cannot serve before any request is made.
func ValidateRequest(topN int, model string) error {
	if model != entity.RerankModelMistralInstruct {
		return fmt.Errorf("%w: model %s not supported", entity.ErrUnsupportedModel, model)
	}
	if topN < 0 {
		return fmt.Errorf("%w: top_n must not be negative, got %d", entity.ErrInvalidParameter, topN)
	}
	return nil
}

// Texts extracts passage text in input order.
func Texts(documents []entity.Document) []string {
	texts := make([]string, 0, len(documents))
	for _, doc := range documents {
		texts = append(texts, doc.Text)
	}
	return texts
}

// DocumentsFromStrings wraps plain strings as documents.
func DocumentsFromStrings(texts []string) []entity.Document {
	documents := make([]entity.Document, 0, len(texts))
	for _, text := range texts {
		documents = append(documents, entity.Document{Text: text})
	}
	return documents
}

// BuildResponse keeps the service ordering and truncates it to topN.
func BuildResponse(passages []entity.RerankedPassage, topN int) *entity.RerankResponse {
	if topN < len(passages) {
		passages = passages[:topN]
	}

	results := make([]entity.RerankResult, 0, len(passages))
	for _, p := range passages {
		results = append(results, entity.RerankResult{
			Document:       entity.Document{Text: p.Passage},
			Index:          p.Index,
			RelevanceScore: p.Score,
		})
	}

	return &entity.RerankResponse{
		ID:      nil,
		Results: results,
	}
}
