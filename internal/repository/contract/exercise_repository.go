package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/specification"
)

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *entity.Exercise) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Exercise, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Exercise, error)
	// FindLatestBySessionId returns the most recently created exercise for
	// a session, or nil when the session has none.
	FindLatestBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.Exercise, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *entity.Evaluation) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Evaluation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
