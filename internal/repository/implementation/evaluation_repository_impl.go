package implementation

import (
	"context"

	"gorm.io/gorm"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/mapper"
	"ai-tutor-be/internal/model"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/specification"
)

type EvaluationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExerciseMapper
}

func NewEvaluationRepository(db *gorm.DB) contract.EvaluationRepository {
	return &EvaluationRepositoryImpl{
		db:     db,
		mapper: mapper.NewExerciseMapper(),
	}
}

func (r *EvaluationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EvaluationRepositoryImpl) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	m := r.mapper.EvaluationToModel(evaluation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*evaluation = *r.mapper.EvaluationToEntity(m)
	return nil
}

func (r *EvaluationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Evaluation, error) {
	var models []*model.Evaluation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Evaluation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EvaluationToEntity(m)
	}
	return entities, nil
}

func (r *EvaluationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Evaluation{}).Count(&count).Error
	return count, err
}
