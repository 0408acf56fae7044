package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Evaluation struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExerciseId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	ChatSessionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Answers          datatypes.JSON `gorm:"type:jsonb"`
	IsCorrect        bool           `gorm:"not null"`
	Score            float64        `gorm:"not null"`
	Feedback         string         `gorm:"type:text"`
	Explanation      string         `gorm:"type:text"`
	QuestionFeedback datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
