package entity

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Line    int    `json:"line,omitempty"`
}

type CreateChatSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

type SendChatMessageRequest struct {
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type SendChatMessageResponse struct {
	Replies []string `json:"replies"`
}

type EmbeddingsRequest struct {
	Texts   []string `json:"texts"`
	IsQuery bool     `json:"is_query"`
}

type EmbeddingsResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type RerankAPIRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      *int     `json:"top_n,omitempty"`
	Model     string   `json:"model,omitempty"`
}

// RetrieveAPIRequest asks the hosted index for the passages nearest to a query
type RetrieveAPIRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}
