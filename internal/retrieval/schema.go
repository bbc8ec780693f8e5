// Package retrieval adapts the hosted embedding and rerank services to the
// interfaces retrieval pipelines program against.
package retrieval

// Node is a chunk of a source document.
type Node struct {
	ID       string
	Text     string
	Metadata map[string]any
}

func (n *Node) GetContent() string {
	if n == nil {
		return ""
	}
	return n.Text
}

// NodeWithScore pairs a node with the score a retriever or postprocessor gave it.
// Score is nil when nothing has scored the node yet.
type NodeWithScore struct {
	Node  *Node
	Score *float64
}

// GetScore returns the score or zero when unscored.
func (n NodeWithScore) GetScore() float64 {
	if n.Score == nil {
		return 0
	}
	return *n.Score
}

type QueryBundle struct {
	QueryStr string
}
