package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is ingested study material; chunks of it are embedded and
// retrieved at chat time.
type Document struct {
	Id        uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}

// ScoredChunk pairs a chunk with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk      *DocumentChunk
	Similarity float64
}
