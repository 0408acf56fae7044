package service

import (
	"context"

	"ai-tutor-be/internal/dto"
	"ai-tutor-be/pkg/exercise"
	"ai-tutor-be/pkg/intent"
)

type IExerciseService interface {
	Generate(ctx context.Context, request *dto.GenerateExerciseRequest) (*dto.ExerciseResponse, error)
	Evaluate(ctx context.Context, request *dto.EvaluateAnswersRequest) (*dto.EvaluationResponse, error)
	GetHint(ctx context.Context, request *dto.HintRequest) (*dto.HintResponse, error)
	GetSolution(ctx context.Context, exerciseId string) (*dto.SolutionResponse, error)
}

// exerciseService exposes the exercise lifecycle directly, outside the
// conversational flow. The same defaults and redaction rules apply as
// when an exercise is requested mid-chat.
type exerciseService struct {
	manager *exercise.Manager
}

func NewExerciseService(manager *exercise.Manager) IExerciseService {
	return &exerciseService{manager: manager}
}

func (es *exerciseService) Generate(ctx context.Context, request *dto.GenerateExerciseRequest) (*dto.ExerciseResponse, error) {
	params := &intent.GenerateParams{
		Subject:       request.Subject,
		Topic:         request.Topic,
		Type:          request.Type,
		Difficulty:    request.Difficulty,
		QuestionCount: request.NumQuestions,
	}
	applyGenerateDefaults(params)

	ex, err := es.manager.Create(ctx, request.ChatSessionId, params)
	if err != nil {
		return nil, err
	}

	questions := make([]dto.ExerciseQuestionDTO, len(ex.Questions))
	for i, q := range ex.Questions {
		questions[i] = dto.ExerciseQuestionDTO{
			Number:  q.Number,
			Prompt:  q.Prompt,
			Choices: q.Choices,
		}
	}

	return &dto.ExerciseResponse{
		Id:           ex.Id,
		Subject:      ex.Subject,
		Topic:        ex.Topic,
		Type:         ex.Type,
		Difficulty:   ex.Difficulty,
		Instructions: ex.Instructions,
		Questions:    questions,
		CreatedAt:    ex.CreatedAt,
	}, nil
}

func (es *exerciseService) Evaluate(ctx context.Context, request *dto.EvaluateAnswersRequest) (*dto.EvaluationResponse, error) {
	eval, err := es.manager.Evaluate(ctx, request.ChatSessionId, &intent.EvaluateParams{
		ExerciseID: request.ExerciseId,
		Answers:    request.Answers,
	})
	if err != nil {
		return nil, err
	}

	feedback := make([]dto.QuestionFeedbackDTO, len(eval.QuestionFeedback))
	for i, qf := range eval.QuestionFeedback {
		feedback[i] = dto.QuestionFeedbackDTO{
			Number:    qf.Number,
			IsCorrect: qf.IsCorrect,
			Feedback:  qf.Feedback,
		}
	}

	return &dto.EvaluationResponse{
		Id:               eval.Id,
		ExerciseId:       eval.ExerciseId,
		IsCorrect:        eval.IsCorrect,
		Score:            eval.Score,
		Feedback:         eval.Feedback,
		Explanation:      eval.Explanation,
		QuestionFeedback: feedback,
		CreatedAt:        eval.CreatedAt,
	}, nil
}

func (es *exerciseService) GetHint(ctx context.Context, request *dto.HintRequest) (*dto.HintResponse, error) {
	hint, err := es.manager.Hint(ctx, &intent.ExerciseRef{
		ExerciseID:     request.ExerciseId,
		QuestionNumber: request.QuestionNumber,
	})
	if err != nil {
		return nil, err
	}
	return &dto.HintResponse{
		ExerciseId: request.ExerciseId,
		Hint:       hint,
	}, nil
}

func (es *exerciseService) GetSolution(ctx context.Context, exerciseId string) (*dto.SolutionResponse, error) {
	ex, err := es.manager.Get(ctx, exerciseId)
	if err != nil {
		return nil, err
	}
	text, err := es.manager.RevealSolution(ctx, &intent.ExerciseRef{ExerciseID: exerciseId})
	if err != nil {
		return nil, err
	}
	return &dto.SolutionResponse{
		ExerciseId: ex.Id,
		Solution:   text,
	}, nil
}

// applyGenerateDefaults mirrors the classifier's normalization so direct
// API calls and in-chat requests produce the same exercises.
func applyGenerateDefaults(p *intent.GenerateParams) {
	if p.Subject == "" {
		p.Subject = intent.DefaultSubject
	}
	if p.Type == "" {
		p.Type = intent.DefaultType
	}
	if p.Difficulty == "" {
		p.Difficulty = intent.DefaultDifficulty
	}
	if p.QuestionCount == 0 {
		p.QuestionCount = intent.DefaultQuestionCount
	}
	if p.QuestionCount < intent.MinQuestionCount {
		p.QuestionCount = intent.MinQuestionCount
	}
	if p.QuestionCount > intent.MaxQuestionCount {
		p.QuestionCount = intent.MaxQuestionCount
	}
}
