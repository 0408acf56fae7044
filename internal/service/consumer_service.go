package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/specification"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/embedding"
	"ai-tutor-be/pkg/events"
	"ai-tutor-be/pkg/utils"
)

// Chunking parameters for ingested documents.
const (
	chunkSize    = 1000
	chunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the background indexer: it receives index events,
// splits the document, embeds every chunk and replaces the stored chunk
// set in one transaction.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload events.IndexDocument
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal index event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads would retry forever
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("consumer", "failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if document == nil {
		// Deleted between publish and consume.
		cs.logger.Warn("consumer", "document gone, skipping index", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack()
		return
	}

	content := fmt.Sprintf("Document Title: %s\n\n%s", document.Title, document.Content)
	chunks := utils.SplitText(content, chunkSize, chunkOverlap)

	cs.logger.Info("consumer", "indexing document", map[string]interface{}{
		"document_id": document.Id.String(),
		"chunks":      len(chunks),
	})

	newChunks := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			cs.logger.Error("consumer", "chunk embedding failed", map[string]interface{}{
				"document_id": document.Id.String(),
				"chunk_index": i,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			ChunkIndex: i,
			Content:    chunk,
			Embedding:  vector,
			CreatedAt:  time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("consumer", "failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Reindexing replaces the whole chunk set, never appends to it.
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		cs.logger.Error("consumer", "failed to delete stale chunks", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			cs.logger.Error("consumer", "failed to store chunks", map[string]interface{}{
				"document_id": document.Id.String(),
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("consumer", "failed to commit chunks", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("consumer", "document indexed", map[string]interface{}{
		"document_id": document.Id.String(),
		"chunks":      len(newChunks),
	})
	msg.Ack()
}
