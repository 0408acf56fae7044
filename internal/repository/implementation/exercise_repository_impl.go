package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/mapper"
	"ai-tutor-be/internal/model"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/specification"
)

type ExerciseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExerciseMapper
}

func NewExerciseRepository(db *gorm.DB) contract.ExerciseRepository {
	return &ExerciseRepositoryImpl{
		db:     db,
		mapper: mapper.NewExerciseMapper(),
	}
}

func (r *ExerciseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ExerciseRepositoryImpl) Create(ctx context.Context, exercise *entity.Exercise) error {
	m := r.mapper.ToModel(exercise)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*exercise = *r.mapper.ToEntity(m)
	return nil
}

func (r *ExerciseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Exercise, error) {
	var m model.Exercise
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ExerciseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Exercise, error) {
	var models []*model.Exercise
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Exercise, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ExerciseRepositoryImpl) FindLatestBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.Exercise, error) {
	var m model.Exercise
	err := r.db.WithContext(ctx).
		Where("chat_session_id = ?", sessionId).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ExerciseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Exercise{}).Count(&count).Error
	return count, err
}
