package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/model"
)

type ExerciseMapper struct{}

func NewExerciseMapper() *ExerciseMapper {
	return &ExerciseMapper{}
}

func (m *ExerciseMapper) ToEntity(e *model.Exercise) *entity.Exercise {
	if e == nil {
		return nil
	}

	var questions []entity.ExerciseQuestion
	if len(e.Questions) > 0 {
		_ = json.Unmarshal(e.Questions, &questions)
	}

	var solutions []entity.ExerciseSolution
	if len(e.Solutions) > 0 {
		_ = json.Unmarshal(e.Solutions, &solutions)
	}

	return &entity.Exercise{
		Id:            e.Id,
		ChatSessionId: e.ChatSessionId,
		Subject:       e.Subject,
		Topic:         e.Topic,
		Type:          e.Type,
		Difficulty:    e.Difficulty,
		Instructions:  e.Instructions,
		Questions:     questions,
		Solutions:     solutions,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ExerciseMapper) ToModel(e *entity.Exercise) *model.Exercise {
	if e == nil {
		return nil
	}

	return &model.Exercise{
		Id:            e.Id,
		ChatSessionId: e.ChatSessionId,
		Subject:       e.Subject,
		Topic:         e.Topic,
		Type:          e.Type,
		Difficulty:    e.Difficulty,
		Instructions:  e.Instructions,
		Questions:     marshalJSON(e.Questions),
		Solutions:     marshalJSON(e.Solutions),
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ExerciseMapper) EvaluationToEntity(e *model.Evaluation) *entity.Evaluation {
	if e == nil {
		return nil
	}

	var answers map[string]string
	if len(e.Answers) > 0 {
		_ = json.Unmarshal(e.Answers, &answers)
	}

	var feedback []entity.QuestionFeedback
	if len(e.QuestionFeedback) > 0 {
		_ = json.Unmarshal(e.QuestionFeedback, &feedback)
	}

	return &entity.Evaluation{
		Id:               e.Id,
		ExerciseId:       e.ExerciseId,
		ChatSessionId:    e.ChatSessionId,
		Answers:          answers,
		IsCorrect:        e.IsCorrect,
		Score:            e.Score,
		Feedback:         e.Feedback,
		Explanation:      e.Explanation,
		QuestionFeedback: feedback,
		CreatedAt:        e.CreatedAt,
	}
}

func (m *ExerciseMapper) EvaluationToModel(e *entity.Evaluation) *model.Evaluation {
	if e == nil {
		return nil
	}

	return &model.Evaluation{
		Id:               e.Id,
		ExerciseId:       e.ExerciseId,
		ChatSessionId:    e.ChatSessionId,
		Answers:          marshalJSON(e.Answers),
		IsCorrect:        e.IsCorrect,
		Score:            e.Score,
		Feedback:         e.Feedback,
		Explanation:      e.Explanation,
		QuestionFeedback: marshalJSON(e.QuestionFeedback),
		CreatedAt:        e.CreatedAt,
	}
}

func marshalJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
