package entity

import (
	"time"

	"github.com/google/uuid"
)

type ExerciseQuestion struct {
	Number  int      `json:"number"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
}

type ExerciseSolution struct {
	Number      int    `json:"number"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// Exercise holds the full generated exercise, solutions included. Only
// redacted copies (questions + instructions) ever leave the service layer
// toward a session transcript.
type Exercise struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Subject       string
	Topic         string
	Type          string
	Difficulty    string
	Instructions  string
	Questions     []ExerciseQuestion
	Solutions     []ExerciseSolution
	CreatedAt     time.Time
}

// HasSolutions reports whether any solution entry carries an answer.
func (e *Exercise) HasSolutions() bool {
	for _, s := range e.Solutions {
		if s.Answer != "" {
			return true
		}
	}
	return false
}

// SolutionFor returns the solution for a 1-based question number.
func (e *Exercise) SolutionFor(number int) (ExerciseSolution, bool) {
	for _, s := range e.Solutions {
		if s.Number == number {
			return s, true
		}
	}
	return ExerciseSolution{}, false
}

// Redacted returns a copy with the solutions stripped.
func (e *Exercise) Redacted() *Exercise {
	clone := *e
	clone.Solutions = nil
	return &clone
}
