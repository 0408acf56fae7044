package model

import (
	"time"

	"github.com/google/uuid"
)

type Persona struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key          string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	DisplayName  string    `gorm:"type:varchar(255);not null"`
	Subject      string    `gorm:"type:varchar(100)"`
	SystemPrompt string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Persona) TableName() string {
	return "personas"
}
