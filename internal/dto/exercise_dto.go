package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateExerciseRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Subject       string    `json:"subject,omitempty"`
	Topic         string    `json:"topic" validate:"required"`
	Type          string    `json:"type,omitempty" validate:"omitempty,oneof=multiple_choice fill_in_blank short_answer code_challenge true_false essay math"`
	Difficulty    string    `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	NumQuestions  int       `json:"num_questions,omitempty" validate:"omitempty,min=1,max=10"`
}

type ExerciseQuestionDTO struct {
	Number  int      `json:"number"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
}

// ExerciseResponse is always the redacted view: no solutions.
type ExerciseResponse struct {
	Id           uuid.UUID             `json:"id"`
	Subject      string                `json:"subject"`
	Topic        string                `json:"topic"`
	Type         string                `json:"type"`
	Difficulty   string                `json:"difficulty"`
	Instructions string                `json:"instructions"`
	Questions    []ExerciseQuestionDTO `json:"questions"`
	CreatedAt    time.Time             `json:"created_at"`
}

type EvaluateAnswersRequest struct {
	ChatSessionId uuid.UUID         `json:"chat_session_id" validate:"required"`
	ExerciseId    string            `json:"exercise_id,omitempty"`
	Answers       map[string]string `json:"answers" validate:"required,min=1"`
}

type QuestionFeedbackDTO struct {
	Number    int    `json:"number"`
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
}

type EvaluationResponse struct {
	Id               uuid.UUID             `json:"id"`
	ExerciseId       uuid.UUID             `json:"exercise_id"`
	IsCorrect        bool                  `json:"is_correct"`
	Score            float64               `json:"score"`
	Feedback         string                `json:"feedback"`
	Explanation      string                `json:"explanation,omitempty"`
	QuestionFeedback []QuestionFeedbackDTO `json:"question_feedback,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

type SolutionResponse struct {
	ExerciseId uuid.UUID `json:"exercise_id"`
	Solution   string    `json:"solution"`
}

type HintRequest struct {
	ExerciseId     string `json:"exercise_id" validate:"required"`
	QuestionNumber int    `json:"question_number,omitempty" validate:"omitempty,min=1"`
}

type HintResponse struct {
	ExerciseId string `json:"exercise_id"`
	Hint       string `json:"hint"`
}
