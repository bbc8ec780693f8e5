package entity

import "time"

// CallbackEventType names the operation a callback event belongs to
type CallbackEventType string

const (
	CallbackEventTypeReranking CallbackEventType = "reranking"
)

// CallbackPhase tells whether an operation is starting or has finished
type CallbackPhase string

const (
	CallbackPhaseStart CallbackPhase = "start"
	CallbackPhaseEnd   CallbackPhase = "end"
)

// Payload keys carried by reranking events
const (
	PayloadNodes     = "nodes"
	PayloadModelName = "model_name"
	PayloadQueryStr  = "query_str"
	PayloadTopK      = "top_k"
)

// CallbackEvent is delivered to every registered callback handler
type CallbackEvent struct {
	ID        string            `json:"id"`
	Event     CallbackEventType `json:"event"`
	Phase     CallbackPhase     `json:"phase"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]any    `json:"payload"`
}
