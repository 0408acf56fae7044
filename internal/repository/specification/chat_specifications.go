package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// OrderBySeq sorts messages by their per-session insertion index.
type OrderBySeq struct {
	Desc bool
}

func (s OrderBySeq) Apply(db *gorm.DB) *gorm.DB {
	if s.Desc {
		return db.Order("seq DESC")
	}
	return db.Order("seq ASC")
}
