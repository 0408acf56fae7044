package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/mapper"
	"ai-tutor-be/internal/model"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/specification"
)

type PersonaRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PersonaMapper
}

func NewPersonaRepository(db *gorm.DB) contract.PersonaRepository {
	return &PersonaRepositoryImpl{
		db:     db,
		mapper: mapper.NewPersonaMapper(),
	}
}

func (r *PersonaRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PersonaRepositoryImpl) Create(ctx context.Context, persona *entity.Persona) error {
	m := r.mapper.ToModel(persona)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*persona = *r.mapper.ToEntity(m)
	return nil
}

func (r *PersonaRepositoryImpl) Upsert(ctx context.Context, persona *entity.Persona) error {
	m := r.mapper.ToModel(persona)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "subject", "system_prompt", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*persona = *r.mapper.ToEntity(m)
	return nil
}

func (r *PersonaRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Persona, error) {
	var m model.Persona
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PersonaRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Persona, error) {
	var models []*model.Persona
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Persona, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PersonaRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Persona{}).Count(&count).Error
	return count, err
}
