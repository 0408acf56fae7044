package entity

import (
	"time"

	"github.com/google/uuid"
)

// Persona is a named teaching character with its own system prompt.
type Persona struct {
	Id           uuid.UUID
	Key          string // stable lookup key, e.g. "math-teacher"
	DisplayName  string
	Subject      string
	SystemPrompt string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
