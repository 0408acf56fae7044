package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MaxSeq returns the highest seq recorded for a session, 0 when empty.
	MaxSeq(ctx context.Context, sessionId uuid.UUID) (int, error)
}
