package exercise

import (
	"encoding/json"
	"strings"

	"ai-tutor-be/internal/apperrors"
	"ai-tutor-be/internal/entity"
)

type generatedExercise struct {
	Instructions string                    `json:"instructions"`
	Questions    []entity.ExerciseQuestion `json:"questions"`
	Solutions    []entity.ExerciseSolution `json:"solutions"`
}

// parseGenerated validates the model output: non-empty, every question
// numbered and paired with a solution of the same number.
func parseGenerated(response string, expectedCount int) (*generatedExercise, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, apperrors.New(apperrors.KindGeneration, "exercise generation returned no JSON")
	}

	var gen generatedExercise
	if err := json.Unmarshal([]byte(jsonContent), &gen); err != nil {
		return nil, apperrors.Wrap(apperrors.KindGeneration, "exercise generation returned malformed JSON", err)
	}

	if len(gen.Questions) == 0 {
		return nil, apperrors.New(apperrors.KindGeneration, "exercise generation returned no questions")
	}
	if len(gen.Questions) != len(gen.Solutions) {
		return nil, apperrors.Newf(apperrors.KindGeneration,
			"question/solution count mismatch: %d questions, %d solutions", len(gen.Questions), len(gen.Solutions))
	}

	// Renumber sequentially so downstream lookups never depend on the
	// model counting correctly; solutions are matched by declared number
	// first, position second.
	solutionsByNumber := make(map[int]entity.ExerciseSolution, len(gen.Solutions))
	for _, s := range gen.Solutions {
		solutionsByNumber[s.Number] = s
	}

	normalized := make([]entity.ExerciseSolution, len(gen.Questions))
	for i := range gen.Questions {
		declared := gen.Questions[i].Number
		sol, ok := solutionsByNumber[declared]
		if !ok {
			sol = gen.Solutions[i]
		}
		gen.Questions[i].Number = i + 1
		sol.Number = i + 1
		normalized[i] = sol

		if strings.TrimSpace(gen.Questions[i].Prompt) == "" {
			return nil, apperrors.Newf(apperrors.KindGeneration, "question %d has an empty prompt", i+1)
		}
	}
	gen.Solutions = normalized

	if expectedCount > 0 && len(gen.Questions) != expectedCount {
		return nil, apperrors.Newf(apperrors.KindGeneration,
			"expected %d questions, model produced %d", expectedCount, len(gen.Questions))
	}

	return &gen, nil
}

type evaluationResult struct {
	IsCorrect        bool                      `json:"is_correct"`
	Score            float64                   `json:"score"`
	Feedback         string                    `json:"feedback"`
	Explanation      string                    `json:"explanation"`
	QuestionFeedback []entity.QuestionFeedback `json:"question_feedback"`
}

func parseEvaluation(response string) (*evaluationResult, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, apperrors.New(apperrors.KindEvaluationParse, "evaluation returned no JSON")
	}

	var eval evaluationResult
	if err := json.Unmarshal([]byte(jsonContent), &eval); err != nil {
		return nil, apperrors.Wrap(apperrors.KindEvaluationParse, "evaluation returned malformed JSON", err)
	}

	return &eval, nil
}

// finalizeScore recomputes the score from per-question verdicts so it is
// always correct/total in [0,1]. Without per-question feedback the model's
// own score is clamped instead.
func finalizeScore(eval *evaluationResult, questionCount int) {
	if len(eval.QuestionFeedback) > 0 {
		correct := 0
		for _, qf := range eval.QuestionFeedback {
			if qf.IsCorrect {
				correct++
			}
		}
		total := len(eval.QuestionFeedback)
		if questionCount > 0 {
			total = questionCount
		}
		eval.Score = float64(correct) / float64(total)
		if eval.Score > 1 {
			eval.Score = 1
		}
		eval.IsCorrect = correct >= total
		return
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > 1 {
		eval.Score = 1
	}
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
