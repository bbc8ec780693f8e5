package inference

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/integration/rerank"
	"github.com/futig/genai-toolkit/internal/pkg/logger"
	"github.com/futig/genai-toolkit/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Handler exposes the hosted embedding and rerank models
type Handler struct {
	embedder     Embedder
	retriever    Retriever
	reranker     Reranker
	defaultTopN  int
	defaultModel string
}

func NewHandler(embedder Embedder, retriever Retriever, reranker Reranker, defaultTopN int, defaultModel string) *Handler {
	return &Handler{
		embedder:     embedder,
		retriever:    retriever,
		reranker:     reranker,
		defaultTopN:  defaultTopN,
		defaultModel: defaultModel,
	}
}

// Embeddings handles POST /v1/embeddings
func (h *Handler) Embeddings(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Embeddings")

	var req entity.EmbeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Texts) == 0 {
		response.FromError(ctx, w, fmt.Errorf("%w: texts", entity.ErrMissingField))
		return
	}

	ctxzap.Info(ctx, "embedding texts", zap.Int("count", len(req.Texts)), zap.Bool("is_query", req.IsQuery))

	var vectors [][]float32
	if req.IsQuery {
		vectors = make([][]float32, 0, len(req.Texts))
		for _, text := range req.Texts {
			vector, err := h.embedder.EmbedQuery(ctx, text)
			if err != nil {
				response.FromError(ctx, w, err)
				return
			}
			vectors = append(vectors, vector)
		}
	} else {
		var err error
		vectors, err = h.embedder.EmbedTexts(ctx, req.Texts)
		if err != nil {
			response.FromError(ctx, w, err)
			return
		}
	}

	response.Success(w, entity.EmbeddingsResponse{Embeddings: vectors})
}

// Retrieve handles POST /v1/retrieve
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Retrieve")

	var req entity.RetrieveAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Query == "" {
		response.FromError(ctx, w, fmt.Errorf("%w: query", entity.ErrMissingField))
		return
	}
	if req.TopK == 0 {
		req.TopK = h.defaultTopN
	}

	result, err := h.retriever.Retrieve(ctx, req.Query, req.TopK)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Rerank handles POST /v1/rerank
func (h *Handler) Rerank(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Rerank")

	var req entity.RerankAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Query == "" {
		response.FromError(ctx, w, fmt.Errorf("%w: query", entity.ErrMissingField))
		return
	}

	topN := h.defaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}
	model := h.defaultModel
	if req.Model != "" {
		model = req.Model
	}

	resp, err := h.reranker.Rerank(ctx, req.Query, rerank.DocumentsFromStrings(req.Documents), topN, model)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}
