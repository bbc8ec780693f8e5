package retrieval

import (
	"context"
	"fmt"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/integration/rerank"
	"github.com/futig/genai-toolkit/internal/pkg/logger"
)

const DefaultRerankTopN = 10

var _ NodePostprocessor = (*ServiceRerank)(nil)

// ServiceRerank reorders nodes with the hosted rerank service.
type ServiceRerank struct {
	client    RerankClient
	model     string
	topN      int
	callbacks *CallbackManager
}

type RerankOption func(*ServiceRerank)

func WithTopN(topN int) RerankOption {
	return func(r *ServiceRerank) {
		r.topN = topN
	}
}

func WithModel(model string) RerankOption {
	return func(r *ServiceRerank) {
		r.model = model
	}
}

func WithCallbackManager(m *CallbackManager) RerankOption {
	return func(r *ServiceRerank) {
		r.callbacks = m
	}
}

func NewServiceRerank(client RerankClient, opts ...RerankOption) (*ServiceRerank, error) {
	r := &ServiceRerank{
		client: client,
		model:  entity.RerankModelMistralInstruct,
		topN:   DefaultRerankTopN,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := rerank.ValidateRequest(r.topN, r.model); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ServiceRerank) Model() string { return r.model }

func (r *ServiceRerank) TopN() int { return r.topN }

// PostprocessNodes returns the reranked nodes in service order, each carrying its new score.
func (r *ServiceRerank) PostprocessNodes(ctx context.Context, nodes []NodeWithScore, query *QueryBundle) ([]NodeWithScore, error) {
	if query == nil {
		return nil, entity.ErrMissingQuery
	}
	if len(nodes) == 0 {
		return []NodeWithScore{}, nil
	}

	ctx = logger.WithAction(ctx, "PostprocessNodes")

	event := r.callbacks.Event(ctx, entity.CallbackEventTypeReranking, map[string]any{
		entity.PayloadNodes:     nodes,
		entity.PayloadModelName: r.model,
		entity.PayloadQueryStr:  query.QueryStr,
		entity.PayloadTopK:      r.topN,
	})

	documents := make([]entity.Document, 0, len(nodes))
	for _, n := range nodes {
		documents = append(documents, entity.Document{Text: n.Node.GetContent()})
	}

	resp, err := r.client.Rerank(ctx, query.QueryStr, documents, r.topN, r.model)
	if err != nil {
		return nil, err
	}

	reranked := make([]NodeWithScore, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result.Index < 0 || result.Index >= len(nodes) {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", entity.ErrIndexOutOfRange, result.Index, len(nodes))
		}

		score := result.RelevanceScore
		reranked = append(reranked, NodeWithScore{
			Node:  nodes[result.Index].Node,
			Score: &score,
		})
	}

	event.OnEnd(ctx, map[string]any{entity.PayloadNodes: reranked})

	return reranked, nil
}
