package exercise

import (
	"context"

	"github.com/google/uuid"

	"ai-tutor-be/internal/apperrors"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/specification"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/intent"
	"ai-tutor-be/pkg/llm"
)

// Manager owns the exercise lifecycle: generate and persist, hint without
// revealing, reveal on request, grade submissions.
//
// The LLM call always precedes the durable write, so a retried model call
// can never duplicate a row.
type Manager struct {
	llmProvider llm.LLMProvider
	repoFactory unitofwork.RepositoryFactory
	logger      logger.ILogger
}

func NewManager(llmProvider llm.LLMProvider, repoFactory unitofwork.RepositoryFactory, log logger.ILogger) *Manager {
	return &Manager{
		llmProvider: llmProvider,
		repoFactory: repoFactory,
		logger:      log,
	}
}

// Create generates a new exercise for a session and stores it in full.
// The returned copy is redacted: solutions never travel with it.
func (m *Manager) Create(ctx context.Context, sessionId uuid.UUID, params *intent.GenerateParams) (*entity.Exercise, error) {
	prompt := buildGenerationPrompt(params.Subject, params.Topic, params.Type, params.Difficulty, params.QuestionCount)

	response, err := m.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		return nil, err
	}

	gen, err := parseGenerated(response, params.QuestionCount)
	if err != nil {
		return nil, err
	}

	ex := &entity.Exercise{
		ChatSessionId: sessionId,
		Subject:       params.Subject,
		Topic:         params.Topic,
		Type:          params.Type,
		Difficulty:    params.Difficulty,
		Instructions:  gen.Instructions,
		Questions:     gen.Questions,
		Solutions:     gen.Solutions,
	}

	uow := m.repoFactory.NewUnitOfWork(ctx)
	if err := uow.ExerciseRepository().Create(ctx, ex); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to store exercise", err)
	}

	m.logger.Info("exercise", "exercise created", map[string]interface{}{
		"exercise_id": ex.Id.String(),
		"session_id":  sessionId.String(),
		"questions":   len(ex.Questions),
	})

	return ex.Redacted(), nil
}

// Get loads an exercise by id, solutions included. Callers redact before
// anything reaches a transcript.
func (m *Manager) Get(ctx context.Context, exerciseId string) (*entity.Exercise, error) {
	id, err := uuid.Parse(exerciseId)
	if err != nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "unknown exercise %q", exerciseId)
	}

	uow := m.repoFactory.NewUnitOfWork(ctx)
	ex, err := uow.ExerciseRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load exercise", err)
	}
	if ex == nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "unknown exercise %q", exerciseId)
	}
	return ex, nil
}

// Latest returns the most recent exercise of a session, or NotFound.
func (m *Manager) Latest(ctx context.Context, sessionId uuid.UUID) (*entity.Exercise, error) {
	uow := m.repoFactory.NewUnitOfWork(ctx)
	ex, err := uow.ExerciseRepository().FindLatestBySessionId(ctx, sessionId)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load latest exercise", err)
	}
	if ex == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "no exercise recorded for this session")
	}
	return ex, nil
}

// Hint produces a nudge for one question. The stored solution grounds the
// hint but must never appear in it.
func (m *Manager) Hint(ctx context.Context, ref *intent.ExerciseRef) (string, error) {
	ex, err := m.Get(ctx, ref.ExerciseID)
	if err != nil {
		return "", err
	}

	number := ref.QuestionNumber
	if number == 0 {
		number = 1
	}
	if number < 1 || number > len(ex.Questions) {
		return "", apperrors.Newf(apperrors.KindValidation,
			"question %d does not exist, the exercise has %d questions", number, len(ex.Questions))
	}

	question := ex.Questions[number-1]
	solution, ok := ex.SolutionFor(number)
	if !ok {
		return "", apperrors.Newf(apperrors.KindNoSolution, "no solution recorded for question %d", number)
	}

	hint, err := m.llmProvider.Generate(ctx, buildHintPrompt(ex, question, solution), llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	return hint, nil
}

// RevealSolution returns the stored solution text for one question, or for
// the whole exercise when number is 0.
func (m *Manager) RevealSolution(ctx context.Context, ref *intent.ExerciseRef) (string, error) {
	ex, err := m.Get(ctx, ref.ExerciseID)
	if err != nil {
		return "", err
	}

	if !ex.HasSolutions() {
		return "", apperrors.Newf(apperrors.KindNoSolution, "exercise %q has no stored solutions", ref.ExerciseID)
	}

	number := ref.QuestionNumber
	if number < 0 || number > len(ex.Questions) {
		return "", apperrors.Newf(apperrors.KindValidation,
			"question %d does not exist, the exercise has %d questions", number, len(ex.Questions))
	}
	if number > 0 {
		if _, ok := ex.SolutionFor(number); !ok {
			return "", apperrors.Newf(apperrors.KindNoSolution, "no solution recorded for question %d", number)
		}
	}

	return FormatSolution(ex, number), nil
}

// Evaluate grades submitted answers against an exercise and appends the
// evaluation record. With no exercise id the session's most recent
// exercise is graded.
func (m *Manager) Evaluate(ctx context.Context, sessionId uuid.UUID, params *intent.EvaluateParams) (*entity.Evaluation, error) {
	var ex *entity.Exercise
	var err error

	if params.ExerciseID != "" {
		ex, err = m.Get(ctx, params.ExerciseID)
	} else {
		ex, err = m.Latest(ctx, sessionId)
	}
	if err != nil {
		return nil, err
	}

	if !ex.HasSolutions() {
		return nil, apperrors.Newf(apperrors.KindNoSolution, "exercise %q has no stored solutions to grade against", ex.Id)
	}

	response, err := m.llmProvider.Generate(ctx, buildEvaluationPrompt(ex, params.Answers), llm.WithTemperature(0.0))
	if err != nil {
		return nil, err
	}

	result, err := parseEvaluation(response)
	if err != nil {
		return nil, err
	}
	finalizeScore(result, len(ex.Questions))

	eval := &entity.Evaluation{
		ExerciseId:       ex.Id,
		ChatSessionId:    sessionId,
		Answers:          params.Answers,
		IsCorrect:        result.IsCorrect,
		Score:            result.Score,
		Feedback:         result.Feedback,
		Explanation:      result.Explanation,
		QuestionFeedback: result.QuestionFeedback,
	}

	uow := m.repoFactory.NewUnitOfWork(ctx)
	if err := uow.EvaluationRepository().Create(ctx, eval); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to store evaluation", err)
	}

	m.logger.Info("exercise", "evaluation stored", map[string]interface{}{
		"exercise_id": ex.Id.String(),
		"session_id":  sessionId.String(),
		"score":       eval.Score,
	})

	return eval, nil
}
