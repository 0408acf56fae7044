package contract

import (
	"context"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/specification"
)

type PersonaRepository interface {
	Create(ctx context.Context, persona *entity.Persona) error
	// Upsert inserts the persona or refreshes an existing row with the
	// same key. Used by startup seeding.
	Upsert(ctx context.Context, persona *entity.Persona) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Persona, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Persona, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
