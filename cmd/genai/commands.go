package main

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/futig/genai-toolkit/internal/builder"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/futig/genai-toolkit/internal/retrieval"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
)

// rankedPassage is one line of the rerank output.
type rankedPassage struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

func newEmbedCmd() *cobra.Command {
	var isQuery bool

	cmd := &cobra.Command{
		Use:   "embed <text>...",
		Short: "Embed passages or search queries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolkit, err := builder.BuildToolkit(environment, 0)
			if err != nil {
				return err
			}
			defer func() { _ = toolkit.Logger.Sync() }()

			ctx := ctxzap.ToContext(cmd.Context(), toolkit.Logger)
			vectors, err := embed(ctx, toolkit.Embeddings, args, isQuery)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), entity.EmbeddingsResponse{Embeddings: vectors})
		},
	}

	cmd.Flags().BoolVar(&isQuery, "query", false, "Embed the texts as search queries")

	return cmd
}

func newRerankCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "rerank <query> <passage>...",
		Short: "Order passages by relevance to a query",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolkit, err := builder.BuildToolkit(environment, topN)
			if err != nil {
				return err
			}
			defer func() { _ = toolkit.Logger.Sync() }()

			ctx := ctxzap.ToContext(cmd.Context(), toolkit.Logger)
			ranked, err := rerank(ctx, toolkit.Reranker, args[0], args[1:])
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), ranked)
		},
	}

	cmd.Flags().IntVar(&topN, "top-n", 0, "Number of passages to keep (default from RERANK_TOP_N)")

	return cmd
}

func embed(ctx context.Context, embeddings retrieval.Embeddings, texts []string, isQuery bool) ([][]float32, error) {
	if !isQuery {
		return embeddings.EmbedDocuments(ctx, texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := embeddings.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func rerank(ctx context.Context, postprocessor retrieval.NodePostprocessor, query string, passages []string) ([]rankedPassage, error) {
	nodes := make([]retrieval.NodeWithScore, 0, len(passages))
	for i, passage := range passages {
		nodes = append(nodes, retrieval.NodeWithScore{
			Node: &retrieval.Node{ID: strconv.Itoa(i), Text: passage},
		})
	}

	reranked, err := postprocessor.PostprocessNodes(ctx, nodes, &retrieval.QueryBundle{QueryStr: query})
	if err != nil {
		return nil, err
	}

	result := make([]rankedPassage, 0, len(reranked))
	for _, n := range reranked {
		index, err := strconv.Atoi(n.Node.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, rankedPassage{
			Index: index,
			Text:  n.Node.GetContent(),
			Score: n.GetScore(),
		})
	}
	return result, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
