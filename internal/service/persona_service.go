package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-tutor-be/internal/apperrors"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/specification"
	"ai-tutor-be/internal/repository/unitofwork"
)

// DefaultPersonas is the built-in teaching catalog, upserted at startup
// and by cmd/seed. Keys are stable; prompts may evolve between releases.
var DefaultPersonas = []entity.Persona{
	{
		Key:         "math-teacher",
		DisplayName: "Ms. Vector",
		Subject:     "mathematics",
		SystemPrompt: `You are Ms. Vector, a patient mathematics teacher. Walk through problems step by step, ` +
			`prefer small numeric examples over abstract notation, and ask the student to attempt the next step ` +
			`before you reveal it. Answer in Markdown.`,
	},
	{
		Key:         "science-teacher",
		DisplayName: "Dr. Beaker",
		Subject:     "science",
		SystemPrompt: `You are Dr. Beaker, an enthusiastic science teacher. Explain concepts with everyday ` +
			`analogies and real experiments, flag common misconceptions explicitly, and keep answers concise. ` +
			`Answer in Markdown.`,
	},
	{
		Key:         "language-teacher",
		DisplayName: "Professor Lexis",
		Subject:     "languages",
		SystemPrompt: `You are Professor Lexis, a supportive language teacher. Correct mistakes gently by ` +
			`restating the corrected form, give one short usage example per correction, and encourage the ` +
			`student to reply in the language they are learning. Answer in Markdown.`,
	},
	{
		Key:         "history-teacher",
		DisplayName: "Mr. Chronicle",
		Subject:     "history",
		SystemPrompt: `You are Mr. Chronicle, a storytelling history teacher. Anchor every answer in concrete ` +
			`dates and sources, connect events to their causes and consequences, and point out where historians ` +
			`disagree. Answer in Markdown.`,
	},
}

type IPersonaService interface {
	GetAll(ctx context.Context) ([]*dto.PersonaResponse, error)
	GetByKey(ctx context.Context, key string) (*entity.Persona, error)
	SeedDefaults(ctx context.Context) error
}

type personaService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPersonaService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IPersonaService {
	return &personaService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (ps *personaService) GetAll(ctx context.Context) ([]*dto.PersonaResponse, error) {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	personas, err := uow.PersonaRepository().FindAll(ctx,
		specification.OrderBy{Field: "display_name", Desc: false},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to list personas", err)
	}

	response := make([]*dto.PersonaResponse, 0, len(personas))
	for _, p := range personas {
		response = append(response, &dto.PersonaResponse{
			Id:          p.Id,
			Key:         p.Key,
			DisplayName: p.DisplayName,
			Subject:     p.Subject,
		})
	}
	return response, nil
}

// GetByKey resolves a persona by its stable key. An unknown key is a
// PersonaNotFound error, never a silent default.
func (ps *personaService) GetByKey(ctx context.Context, key string) (*entity.Persona, error) {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	persona, err := uow.PersonaRepository().FindOne(ctx, specification.ByPersonaKey{Key: key})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load persona", err)
	}
	if persona == nil {
		return nil, apperrors.Newf(apperrors.KindPersonaNotFound, "unknown persona %q", key)
	}
	return persona, nil
}

// SeedDefaults upserts the built-in catalog. Safe to run on every boot.
func (ps *personaService) SeedDefaults(ctx context.Context) error {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	for _, p := range DefaultPersonas {
		persona := p
		persona.Id = uuid.New()
		persona.CreatedAt = time.Now()
		if err := uow.PersonaRepository().Upsert(ctx, &persona); err != nil {
			return apperrors.Wrap(apperrors.KindStorage, "failed to seed persona "+persona.Key, err)
		}
	}

	ps.logger.Info("persona", "persona catalog seeded", map[string]interface{}{
		"count": len(DefaultPersonas),
	})
	return nil
}
