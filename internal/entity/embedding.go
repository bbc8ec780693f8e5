package entity

import "encoding/json"

// Boolean flags travel as the strings "True" and "False" on the embedding service.
const (
	FlagTrue  = "True"
	FlagFalse = "False"
)

// EmbeddingRequest carries either one text (string) or a batch ([]string).
type EmbeddingRequest struct {
	Text    any    `json:"text"`
	ModelID string `json:"model_id"`
	IsQuery string `json:"is_query"`
}

type EmbeddingResponse struct {
	Embedding json.RawMessage `json:"embedding"`
}

type RetrieveRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
	TopK    string `json:"topk"`
}

func BoolFlag(v bool) string {
	if v {
		return FlagTrue
	}
	return FlagFalse
}
