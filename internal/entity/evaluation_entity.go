package entity

import (
	"time"

	"github.com/google/uuid"
)

type QuestionFeedback struct {
	Number    int    `json:"number"`
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
}

// Evaluation is an append-only record of one grading pass over a set of
// submitted answers. Score is recomputed as correct/total so it always
// lands in [0,1] regardless of what the model claimed.
type Evaluation struct {
	Id               uuid.UUID
	ExerciseId       uuid.UUID
	ChatSessionId    uuid.UUID
	Answers          map[string]string
	IsCorrect        bool
	Score            float64
	Feedback         string
	Explanation      string
	QuestionFeedback []QuestionFeedback
	CreatedAt        time.Time
}
