package mapper

import (
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/model"
)

type PersonaMapper struct{}

func NewPersonaMapper() *PersonaMapper {
	return &PersonaMapper{}
}

func (m *PersonaMapper) ToEntity(p *model.Persona) *entity.Persona {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Persona{
		Id:           p.Id,
		Key:          p.Key,
		DisplayName:  p.DisplayName,
		Subject:      p.Subject,
		SystemPrompt: p.SystemPrompt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *PersonaMapper) ToModel(p *entity.Persona) *model.Persona {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Persona{
		Id:           p.Id,
		Key:          p.Key,
		DisplayName:  p.DisplayName,
		Subject:      p.Subject,
		SystemPrompt: p.SystemPrompt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}
