package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/specification"
)

type memDocumentRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Document
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{rows: make(map[uuid.UUID]*entity.Document)}
}

func (r *memDocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *d
	r.rows[d.Id] = &clone
	return nil
}

func (r *memDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if d, found := r.rows[byID.ID]; found {
				clone := *d
				return &clone, nil
			}
		}
	}
	return nil, nil
}

func (r *memDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Document, 0, len(r.rows))
	for _, d := range r.rows {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type memChunkRepo struct {
	mu   sync.Mutex
	rows []*entity.DocumentChunk
}

func (r *memChunkRepo) Create(ctx context.Context, c *entity.DocumentChunk) error {
	return r.CreateBulk(ctx, []*entity.DocumentChunk{c})
}

func (r *memChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		clone := *c
		r.rows = append(r.rows, &clone)
	}
	return nil
}

func (r *memChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, c := range r.rows {
		if c.DocumentId != documentId {
			kept = append(kept, c)
		}
	}
	r.rows = kept
	return nil
}

func (r *memChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byDoc, ok := spec.(specification.ByDocumentID); ok {
			n := int64(0)
			for _, c := range r.rows {
				if c.DocumentId == byDoc.DocumentID {
					n++
				}
			}
			return n, nil
		}
	}
	return int64(len(r.rows)), nil
}

func (r *memChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error) {
	return nil, nil
}

func (r *memChunkRepo) snapshot() []*entity.DocumentChunk {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.DocumentChunk, len(r.rows))
	copy(out, r.rows)
	return out
}

type stubEmbedder struct {
	mu        sync.Mutex
	taskTypes []string
}

func (s *stubEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskTypes = append(s.taskTypes, taskType)
	return []float32{1, 0, 0}, nil
}

func TestIngestThenConsumeIndexesChunks(t *testing.T) {
	uow := &fakeUow{documents: newMemDocumentRepo(), chunks: &memChunkRepo{}}
	factory := &fakeFactory{uow: uow}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	const topic = "INDEX_DOCUMENT"

	embedder := &stubEmbedder{}
	consumer := NewConsumerService(pubSub, topic, factory, embedder, noopLogger{})
	require.NoError(t, consumer.Consume(context.Background()))

	docService := NewDocumentService(factory, NewPublisherService(topic, pubSub), noopLogger{})

	content := strings.Repeat("Photosynthesis converts light into chemical energy. ", 60)
	res, err := docService.Ingest(context.Background(), &dto.IngestDocumentRequest{
		Title:   "Biology notes",
		Content: content,
	})
	require.NoError(t, err)
	assert.Equal(t, "indexing", res.Status)

	require.Eventually(t, func() bool {
		return len(uow.chunks.snapshot()) > 1
	}, 2*time.Second, 10*time.Millisecond, "consumer must split and store multiple chunks")

	for i, chunk := range uow.chunks.snapshot() {
		assert.Equal(t, res.Id, chunk.DocumentId)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.NotEmpty(t, chunk.Embedding)
	}

	embedder.mu.Lock()
	defer embedder.mu.Unlock()
	for _, taskType := range embedder.taskTypes {
		assert.Equal(t, "RETRIEVAL_DOCUMENT", taskType)
	}
}

func TestDeleteDocumentRemovesChunks(t *testing.T) {
	uow := &fakeUow{documents: newMemDocumentRepo(), chunks: &memChunkRepo{}}
	factory := &fakeFactory{uow: uow}

	doc := &entity.Document{Id: uuid.New(), Title: "t", Content: "c", CreatedAt: time.Now()}
	require.NoError(t, uow.documents.Create(context.Background(), doc))
	require.NoError(t, uow.chunks.Create(context.Background(), &entity.DocumentChunk{
		Id: uuid.New(), DocumentId: doc.Id, Content: "c",
	}))

	docService := NewDocumentService(factory, nil, noopLogger{})

	require.NoError(t, docService.Delete(context.Background(), doc.Id))
	assert.Empty(t, uow.chunks.snapshot())
	assert.Empty(t, uow.documents.rows)

	// Unknown ids are a no-op.
	require.NoError(t, docService.Delete(context.Background(), uuid.New()))
}
