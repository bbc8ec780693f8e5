package retrieval

import (
	"context"
	"time"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackManager fans events out to its handlers. A nil manager drops events.
type CallbackManager struct {
	handlers []CallbackHandler
}

func NewCallbackManager(handlers ...CallbackHandler) *CallbackManager {
	return &CallbackManager{handlers: handlers}
}

// EventScope is an open event waiting for its end.
type EventScope struct {
	manager *CallbackManager
	id      string
	kind    entity.CallbackEventType
}

// Event announces the start of an operation and returns the scope used to end it.
func (m *CallbackManager) Event(ctx context.Context, kind entity.CallbackEventType, payload map[string]any) *EventScope {
	scope := &EventScope{manager: m, id: uuid.NewString(), kind: kind}
	if m == nil {
		return scope
	}

	event := scope.build(entity.CallbackPhaseStart, payload)
	for _, h := range m.handlers {
		h.OnEventStart(ctx, event)
	}
	return scope
}

func (s *EventScope) OnEnd(ctx context.Context, payload map[string]any) {
	if s.manager == nil {
		return
	}

	event := s.build(entity.CallbackPhaseEnd, payload)
	for _, h := range s.manager.handlers {
		h.OnEventEnd(ctx, event)
	}
}

func (s *EventScope) build(phase entity.CallbackPhase, payload map[string]any) entity.CallbackEvent {
	return entity.CallbackEvent{
		ID:        s.id,
		Event:     s.kind,
		Phase:     phase,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// LoggingHandler writes every event to the context logger.
type LoggingHandler struct{}

func (LoggingHandler) OnEventStart(ctx context.Context, event entity.CallbackEvent) {
	ctxzap.Info(ctx, "callback event started", eventFields(event)...)
}

func (LoggingHandler) OnEventEnd(ctx context.Context, event entity.CallbackEvent) {
	ctxzap.Info(ctx, "callback event finished", eventFields(event)...)
}

func eventFields(event entity.CallbackEvent) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event", string(event.Event)),
		zap.String("phase", string(event.Phase)),
	}

	for key, value := range event.Payload {
		switch v := value.(type) {
		case []NodeWithScore:
			fields = append(fields, zap.Int(key, len(v)))
		case string:
			fields = append(fields, zap.String(key, v))
		case int:
			fields = append(fields, zap.Int(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}
	return fields
}
