package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID
	Title     string
	PersonaId *uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}
