package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession carries no soft-delete column: deleting a session removes
// the row outright, together with its messages.
type ChatSession struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string     `gorm:"type:text;not null"`
	PersonaId *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
