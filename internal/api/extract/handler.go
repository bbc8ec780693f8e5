package extract

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/extract"
	"github.com/futig/genai-toolkit/internal/pkg/logger"
	"github.com/futig/genai-toolkit/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MaxBodyBytes bounds an uploaded JSON Lines dump.
const MaxBodyBytes = 32 << 20

type Handler struct {
	extractor *extract.Extractor
}

func NewHandler(extractor *extract.Extractor) *Handler {
	return &Handler{extractor: extractor}
}

// Extract handles POST /v1/extract. The body is JSON Lines, the answer is the surviving lines as text.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Extract")

	var out bytes.Buffer
	_, err := h.extractor.Run(ctx, http.MaxBytesReader(w, r.Body, MaxBodyBytes), &out)

	var parseErr *extract.ParseError
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		response.Text(w, http.StatusOK, out.Bytes())
	case errors.As(err, &parseErr):
		ctxzap.Warn(ctx, "malformed record", zap.Error(err))
		response.JSON(w, http.StatusBadRequest, parseErrorBody(parseErr))
	case errors.As(err, &tooLarge):
		response.Fail(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
	default:
		response.FromError(ctx, w, err)
	}
}

func parseErrorBody(err *extract.ParseError) entity.ErrorResponse {
	return entity.ErrorResponse{
		Error:   http.StatusText(http.StatusBadRequest),
		Message: err.Error(),
		Line:    err.Line,
	}
}
