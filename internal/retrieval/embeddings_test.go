package retrieval

import (
	"context"
	"testing"

	"github.com/futig/genai-toolkit/internal/integration/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServiceEmbeddings_BothContracts(t *testing.T) {
	client := embedding.NewMockConnector(zap.NewNop())
	e := NewServiceEmbeddings(client)
	ctx := context.Background()

	query := "What is the capital of the United States?"
	docs := []string{"This is a sample document.", "This is a sample document."}

	chainQuery, err := e.EmbedQuery(ctx, query)
	require.NoError(t, err)
	indexQuery, err := e.GetQueryEmbedding(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, chainQuery, indexQuery)

	chainDocs, err := e.EmbedDocuments(ctx, docs)
	require.NoError(t, err)
	indexDocs, err := e.GetTextEmbeddingBatch(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, chainDocs, indexDocs)
	require.Len(t, chainDocs, 2)

	single, err := e.GetTextEmbedding(ctx, docs[0])
	require.NoError(t, err)
	assert.Equal(t, chainDocs[0], single)
	assert.NotEqual(t, chainQuery, single)
}

func TestServiceEmbeddings_EmptyBatch(t *testing.T) {
	e := NewServiceEmbeddings(embedding.NewMockConnector(zap.NewNop()))
	out, err := e.EmbedDocuments(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNilCallbackManagerDropsEvents(t *testing.T) {
	var m *CallbackManager
	scope := m.Event(context.Background(), "reranking", nil)
	assert.NotPanics(t, func() { scope.OnEnd(context.Background(), nil) })
}
