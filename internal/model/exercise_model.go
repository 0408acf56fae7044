package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Exercise struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Subject       string         `gorm:"type:varchar(100);not null"`
	Topic         string         `gorm:"type:text;not null"`
	Type          string         `gorm:"type:varchar(50);not null"`
	Difficulty    string         `gorm:"type:varchar(50);not null"`
	Instructions  string         `gorm:"type:text"`
	Questions     datatypes.JSON `gorm:"type:jsonb;not null"`
	Solutions     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (Exercise) TableName() string {
	return "exercises"
}
