package retriever

import (
	"context"

	"ai-tutor-be/internal/apperrors"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/embedding"
	"ai-tutor-be/pkg/store"
)

// Retriever finds document chunks relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]store.Chunk, error)
}

// VectorRetriever embeds the query and runs a pgvector cosine similarity
// search over ingested document chunks.
type VectorRetriever struct {
	embeddingProvider embedding.EmbeddingProvider
	repoFactory       unitofwork.RepositoryFactory
	logger            logger.ILogger
}

var _ Retriever = &VectorRetriever{}

func NewVectorRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	repoFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) *VectorRetriever {
	return &VectorRetriever{
		embeddingProvider: embeddingProvider,
		repoFactory:       repoFactory,
		logger:            log,
	}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]store.Chunk, error) {
	queryVector, err := r.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, "query embedding failed", err)
	}

	uow := r.repoFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, queryVector, k, 0.0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "similarity search failed", err)
	}

	chunks := make([]store.Chunk, len(scored))
	for i, s := range scored {
		chunks[i] = store.Chunk{
			ID:         s.Chunk.Id.String(),
			DocumentID: s.Chunk.DocumentId.String(),
			Content:    s.Chunk.Content,
			Score:      float32(s.Similarity),
		}
	}

	r.logger.Debug("retriever", "similarity search done", map[string]interface{}{
		"query_len": len(query),
		"hits":      len(chunks),
	})

	return chunks, nil
}
