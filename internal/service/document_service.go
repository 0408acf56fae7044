package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ai-tutor-be/internal/apperrors"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/specification"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/events"
)

type IDocumentService interface {
	Ingest(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	GetAll(ctx context.Context) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// documentService stores raw study material and hands indexing off to the
// consumer via the event bus. Chunking and embedding never run on the
// request path.
type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (ds *documentService) Ingest(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	document := &entity.Document{
		Id:        uuid.New(),
		Title:     request.Title,
		Content:   request.Content,
		CreatedAt: time.Now(),
	}

	uow := ds.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to store document", err)
	}

	payload, err := json.Marshal(events.IndexDocument{DocumentId: document.Id})
	if err != nil {
		return nil, err
	}
	if err := ds.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	ds.logger.Info("document", "document queued for indexing", map[string]interface{}{
		"document_id": document.Id.String(),
		"title":       document.Title,
		"content_len": len(document.Content),
	})

	return &dto.IngestDocumentResponse{
		Id:     document.Id,
		Title:  document.Title,
		Status: "indexing",
	}, nil
}

func (ds *documentService) GetAll(ctx context.Context) ([]*dto.DocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to list documents", err)
	}

	response := make([]*dto.DocumentResponse, 0, len(documents))
	for _, d := range documents {
		chunkCount, err := uow.DocumentChunkRepository().Count(ctx,
			specification.ByDocumentID{DocumentID: d.Id},
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindStorage, "failed to count document chunks", err)
		}
		response = append(response, &dto.DocumentResponse{
			Id:         d.Id,
			Title:      d.Title,
			ChunkCount: chunkCount,
			CreatedAt:  d.CreatedAt,
		})
	}

	return response, nil
}

// Delete removes the document and all of its indexed chunks. Deleting an
// unknown document is a no-op.
func (ds *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "failed to load document", err)
	}
	if document == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "failed to delete document chunks", err)
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "failed to delete document", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	ds.logger.Info("document", "document deleted", map[string]interface{}{
		"document_id": id.String(),
	})
	return nil
}
