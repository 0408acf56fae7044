package embedding

import "context"

// Task types steer asymmetric embedding models: documents are indexed with
// one, queries searched with the other.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider turns text into a unit-length vector. All providers
// normalize their output so pgvector cosine distance behaves.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
