package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type IngestDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Status string    `json:"status"` // "indexing"
}

type DocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	ChunkCount int64     `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
