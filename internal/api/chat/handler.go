package chat

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/pkg/logger"
	"github.com/futig/genai-toolkit/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service ChatService
}

func NewHandler(service ChatService) *Handler {
	return &Handler{service: service}
}

// CreateSession handles POST /v1/chat/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	ctx := logger.AddFields(logger.WithAction(r.Context(), "CreateSession"), zap.String("session_id", sessionID))

	greeting, err := h.service.Start(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Created(w, entity.CreateChatSessionResponse{
		SessionID: sessionID,
		Greeting:  greeting,
	})
}

// SendMessage handles POST /v1/chat/sessions/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(logger.WithAction(r.Context(), "SendMessage"), zap.String("session_id", sessionID))

	if _, err := h.service.Session(ctx, sessionID); err != nil {
		response.FromError(ctx, w, err)
		return
	}

	var req entity.SendChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Content == "" && len(req.Attachments) == 0 {
		response.FromError(ctx, w, fmt.Errorf("%w: content", entity.ErrMissingField))
		return
	}

	replies, err := h.service.HandleMessage(ctx, sessionID, entity.IncomingMessage{
		Content:     req.Content,
		Attachments: req.Attachments,
	})
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.Success(w, entity.SendChatMessageResponse{Replies: replies})
}
