package entity

// RerankModelMistralInstruct is the only model the hosted rerank service serves.
const RerankModelMistralInstruct = "mistral-instruct"

// Document is a passage handed to the reranker.
type Document struct {
	Text string `json:"text"`
}

type RerankRequest struct {
	Query     string   `json:"query"`
	Passages  []string `json:"passages"`
	ModelName string   `json:"model_name"`
}

type RerankedPassage struct {
	Passage string  `json:"passage"`
	Index   int     `json:"index"`
	Score   float64 `json:"score"`
}

type RerankServiceResponse struct {
	RerankedPassages []RerankedPassage `json:"reranked_passages"`
}

// RerankResult is one scored document, pointing back at its input position.
type RerankResult struct {
	Document       Document `json:"document"`
	Index          int      `json:"index"`
	RelevanceScore float64  `json:"relevance_score"`
}

// RerankResponse mirrors the common rerank API shape. ID is always nil.
type RerankResponse struct {
	ID      *string        `json:"id"`
	Results []RerankResult `json:"results"`
}
